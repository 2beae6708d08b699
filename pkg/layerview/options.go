package layerview

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/analyzere/extras/pkg/errors"
)

// Color modes.
const (
	ColorModeBreadth = "breadth"
	ColorModeDepth   = "depth"
)

// Options configures graph construction. Start from [DefaultOptions]: the
// zero value disables terms, compaction and warning highlights.
type Options struct {
	WithTerms bool   // include term annotations in leaf labels
	Compact   bool   // collapse structurally identical nodes
	Warnings  bool   // highlight leaves whose terms need attention
	Format    string // output format passed through to the renderer
	Rankdir   string // layout direction: TB, LR, BT or RL

	// MaxDepth stops expanding NestedLayer sources at this depth; 0 means
	// unlimited. The root is at depth 0.
	MaxDepth int
	// MaxSources collapses a sink's sources into one summary node when there
	// are more than this many; 0 means unlimited.
	MaxSources int

	Colors    int    // number of edge colours to cycle through
	ColorMode string // breadth or depth

	// Filename overrides the derived output name (without extension).
	Filename string
	// Size is the Graphviz size attribute.
	Size string

	Logger *log.Logger
}

// DefaultOptions returns the options used when nothing is overridden.
func DefaultOptions() Options {
	return Options{
		WithTerms: true,
		Compact:   true,
		Warnings:  true,
		Format:    "png",
		Rankdir:   "BT",
		Colors:    1,
		ColorMode: ColorModeBreadth,
		Size:      "120,120",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Format == "" {
		o.Format = d.Format
	}
	if o.Rankdir == "" {
		o.Rankdir = d.Rankdir
	}
	if o.Colors == 0 {
		o.Colors = d.Colors
	}
	if o.ColorMode == "" {
		o.ColorMode = d.ColorMode
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if err := errors.ValidateRankdir(o.Rankdir); err != nil {
		return err
	}
	if err := errors.ValidateColorMode(o.ColorMode); err != nil {
		return err
	}
	if err := errors.ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "max depth must not be negative, got %d", o.MaxDepth)
	}
	if o.MaxSources < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "max sources must not be negative, got %d", o.MaxSources)
	}
	if o.Colors < 1 || o.Colors > len(palette) {
		return errors.New(errors.ErrCodeInvalidOption, "colors must be between 1 and %d, got %d", len(palette), o.Colors)
	}
	return nil
}

// filename derives the default output name. Every option that changes the
// drawing appears in it so distinct configurations never share a file.
func (o Options) filename(id string) string {
	parts := []string{
		id,
		o.Rankdir,
		choose(o.Compact, "compact", "not-compact"),
		choose(o.WithTerms, "with-terms", "without-terms"),
		choose(o.Warnings, "warnings-enabled", "warnings-disabled"),
	}
	name := strings.Join(parts, "_")
	if o.MaxDepth > 0 {
		name += "_depth-" + strconv.Itoa(o.MaxDepth)
	}
	if o.MaxSources > 0 {
		name += "_srclimit-" + strconv.Itoa(o.MaxSources)
	}
	if o.Colors > 1 {
		name += "_" + strconv.Itoa(o.Colors) + "-colors-by-" + o.ColorMode
	}
	return name
}

func choose(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
