package errors

import (
	"strings"

	"github.com/google/uuid"
)

// Rankdir values understood by Graphviz.
var validRankdirs = map[string]bool{"TB": true, "LR": true, "BT": true, "RL": true}

// Color modes understood by the layer view walker.
var validColorModes = map[string]bool{"breadth": true, "depth": true}

// Output formats the renderer can produce.
var validFormats = map[string]bool{"dot": true, "svg": true, "png": true, "jpg": true, "pdf": true, "json": true}

// ValidateRankdir checks that rankdir is one of TB, LR, BT or RL.
func ValidateRankdir(rankdir string) error {
	if !validRankdirs[rankdir] {
		return New(ErrCodeInvalidOption, "invalid rankdir: %q (must be one of: TB, LR, BT, RL)", rankdir)
	}
	return nil
}

// ValidateColorMode checks that mode is "breadth" or "depth".
func ValidateColorMode(mode string) error {
	if !validColorModes[mode] {
		return New(ErrCodeInvalidOption, "invalid color mode: %q (must be one of: breadth, depth)", mode)
	}
	return nil
}

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png, jpg, pdf, json)", format)
	}
	return nil
}

// ValidateLayerViewID checks that id is a well-formed UUID, the only
// identifier shape the platform issues for layer views.
func ValidateLayerViewID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "layer view id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidID, err, "invalid layer view id: %q", id)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateFilename checks that name is a bare file name: no directory
// components, no control characters.
func ValidateFilename(name string) error {
	if name == "" || name == "." || name == ".." {
		return New(ErrCodeInvalidOption, "invalid filename: %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidOption, "filename must not contain path separators: %q", name)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return New(ErrCodeInvalidOption, "filename must not contain control characters: %q", name)
		}
	}
	return nil
}
