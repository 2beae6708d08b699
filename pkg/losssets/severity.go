package losssets

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/analyzere/extras/pkg/errors"
)

// Point is one outcome of a severity distribution.
type Point struct {
	Probability float64 `json:"probability"`
	Loss        float64 `json:"loss"`
}

// Severity is a discrete severity distribution ordered by loss.
type Severity []Point

// BuildSeverity pools the losses of events into a severity distribution.
// events gives the order in which probability is accumulated and may repeat
// an event; losses maps each event to the losses it produced.
func BuildSeverity(events []int64, losses map[int64][]float64, load float64) (Severity, error) {
	if len(events) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one source event is required")
	}
	eventProbability := 1.0 / float64(len(events))

	byLoss := make(map[float64]float64)
	for _, ev := range events {
		ls := losses[ev]
		if len(ls) == 0 {
			byLoss[0] += eventProbability
			continue
		}
		p := eventProbability / float64(len(ls))
		for _, l := range ls {
			byLoss[l*load] += p
		}
	}

	keys := make([]float64, 0, len(byLoss))
	for k := range byLoss {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	sev := make(Severity, len(keys))
	for i, k := range keys {
		sev[i] = Point{Probability: byLoss[k], Loss: k}
	}
	return sev, nil
}

// CSV renders the distribution in the platform's Probability,Loss upload
// format.
func (s Severity) CSV() string {
	var b strings.Builder
	b.WriteString("Probability,Loss\n")
	for _, p := range s {
		b.WriteString(formatFloat(p.Probability))
		b.WriteByte(',')
		b.WriteString(formatFloat(p.Loss))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatFloat writes the shortest representation that round-trips, always
// with a fractional part or an exponent, switching to exponent form below
// 1e-4 and from 1e16.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
