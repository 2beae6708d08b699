package terms

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/analyzere/extras/pkg/model"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount as a thousands-grouped whole number followed
// by its currency, or "unlimited" for the sentinel value. Halves round to
// even.
func FormatMoney(m model.MoneyField) string {
	if m.Unlimited() {
		return "unlimited"
	}
	v := math.RoundToEven(m.Value)
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	n := printer.Sprintf("%.0f", v)
	if m.Currency == "" {
		return n
	}
	return n + " " + m.Currency
}

// FormatDate returns the calendar date of t in UTC as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatDescription strips single quotes and escapes backslashes and
// non-printable characters so the text fits on a single label line.
func FormatDescription(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\'':
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			b.WriteString(`\x`)
			b.WriteString(hex(uint64(r), 2))
		case r < 0x10000:
			b.WriteString(`\u`)
			b.WriteString(hex(uint64(r), 4))
		default:
			b.WriteString(`\U`)
			b.WriteString(hex(uint64(r), 8))
		}
	}
	return b.String()
}

// Quote formats a description and wraps it in single quotes.
func Quote(s string) string {
	return "'" + FormatDescription(s) + "'"
}

func hex(v uint64, width int) string {
	s := strconv.FormatUint(v, 16)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// formatFloat prints a ratio the way the platform's reference client does:
// at most 12 significant digits and always with a fractional part.
func formatFloat(v float64) string {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		r = v
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if math.IsInf(r, 0) || math.IsNaN(r) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// formatNumber prints a count-like value without a fractional part when it
// is integral.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
