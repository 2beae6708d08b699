package layerview

// palette holds visually distinct edge colours. The first entry is the
// single-colour default.
var palette = []string{
	"black",
	"blue",
	"red",
	"darkgreen",
	"orange",
	"purple",
	"brown",
	"deeppink",
	"cyan4",
	"goldenrod",
	"navy",
	"olivedrab",
	"firebrick",
	"darkviolet",
	"turquoise4",
	"slategray",
}

// Node styles.
const (
	warningFill = "#ff6961"
	lossSetFill = "lightgrey"
)

// paletteColor cycles through the first n entries. Options.Validate keeps n
// within the palette.
func paletteColor(i, n int) string {
	return palette[i%n]
}
