package server

import (
	"net/url"
	"strconv"

	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/layerview"
)

// graphQuery is the parsed option set of a render request.
type graphQuery struct {
	opts  layerview.Options
	scale float64
}

// parseGraphQuery overlays query parameters on defaults.
func parseGraphQuery(q url.Values, defaults layerview.Options) (graphQuery, error) {
	gq := graphQuery{opts: defaults}
	o := &gq.opts

	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"with_terms", &o.WithTerms},
		{"compact", &o.Compact},
		{"warnings", &o.Warnings},
	} {
		if v := q.Get(b.name); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return gq, errors.New(errors.ErrCodeInvalidOption, "%s must be a boolean, got %q", b.name, v)
			}
			*b.dst = parsed
		}
	}

	for _, n := range []struct {
		name string
		dst  *int
	}{
		{"max_depth", &o.MaxDepth},
		{"max_sources", &o.MaxSources},
		{"colors", &o.Colors},
	} {
		if v := q.Get(n.name); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return gq, errors.New(errors.ErrCodeInvalidOption, "%s must be an integer, got %q", n.name, v)
			}
			*n.dst = parsed
		}
	}

	if v := q.Get("format"); v != "" {
		o.Format = v
	}
	if v := q.Get("rankdir"); v != "" {
		o.Rankdir = v
	}
	if v := q.Get("color_mode"); v != "" {
		o.ColorMode = v
	}
	if v := q.Get("filename"); v != "" {
		if err := errors.ValidateFilename(v); err != nil {
			return gq, err
		}
		o.Filename = v
	}
	if v := q.Get("scale"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return gq, errors.New(errors.ErrCodeInvalidOption, "scale must be a positive number, got %q", v)
		}
		gq.scale = parsed
	}
	return gq, nil
}
