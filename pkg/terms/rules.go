package terms

import (
	"strconv"
	"strings"

	"github.com/analyzere/extras/pkg/model"
)

const (
	maxListedFilters = 3
	maxListedReinsts = 4
)

// Term is one "name=value" annotation of a layer.
type Term struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Warning bool   `json:"warning"`
}

// String returns the term as "name=value".
func (t Term) String() string {
	return t.Name + "=" + t.Value
}

// rule describes how one layer attribute becomes a term. applies doubles as
// the presence check; warn is optional.
type rule struct {
	name    string
	applies func(l *model.Layer) bool
	value   func(l *model.Layer) string
	warn    func(l *model.Layer) bool
}

// rules is evaluated strictly in order.
var rules = []rule{
	{
		name:    "coverage",
		applies: func(l *model.Layer) bool { return isSet(l.InceptionDate) || isSet(l.ExpiryDate) },
		value:   coverage,
	},
	{
		name:    "share",
		applies: func(l *model.Layer) bool { return l.Participation != nil },
		value:   func(l *model.Layer) string { return formatFloat(*l.Participation*100) + "%" },
		warn:    func(l *model.Layer) bool { return *l.Participation == 0 },
	},
	{
		name:    "criterion",
		applies: func(l *model.Layer) bool { return l.Criterion != nil },
		value:   func(l *model.Layer) string { return *l.Criterion },
	},
	{
		name:    "count",
		applies: func(l *model.Layer) bool { return l.Count != nil },
		value:   func(l *model.Layer) string { return strconv.Itoa(*l.Count) },
	},
	{
		name:    "filters",
		applies: func(l *model.Layer) bool { return l.HasFilters() },
		value:   filters,
	},
	{
		name:    "invert",
		applies: func(l *model.Layer) bool { return l.Invert != nil },
		value:   func(l *model.Layer) string { return formatBool(*l.Invert) },
		warn:    func(l *model.Layer) bool { return !*l.Invert && len(l.Filters) == 0 },
	},
	moneyRule("occ_att", func(l *model.Layer) *model.MoneyField { return l.Attachment }, true),
	moneyRule("occ_lim", func(l *model.Layer) *model.MoneyField { return l.Limit }, false),
	{
		name:    "nth",
		applies: func(l *model.Layer) bool { return l.Nth != nil },
		value:   func(l *model.Layer) string { return strconv.Itoa(*l.Nth) },
	},
	{
		name:    "reinsts",
		applies: func(l *model.Layer) bool { return len(l.Reinstatements) > 0 },
		value:   reinstatements,
	},
	moneyRule("franchise", func(l *model.Layer) *model.MoneyField { return l.Franchise }, false),
	moneyRule("event_lim", func(l *model.Layer) *model.MoneyField { return l.EventLimit }, false),
	moneyRule("agg_att", func(l *model.Layer) *model.MoneyField { return l.AggregateAttachment }, true),
	moneyRule("agg_lim", func(l *model.Layer) *model.MoneyField { return l.AggregateLimit }, false),
	{
		name:    "agg_period",
		applies: func(l *model.Layer) bool { return l.AggregatePeriod != nil && *l.AggregatePeriod > 0 },
		value:   func(l *model.Layer) string { return formatNumber(*l.AggregatePeriod) },
	},
	{
		name:    "agg_reset",
		applies: func(l *model.Layer) bool { return l.AggregateReset != nil && *l.AggregateReset > 1 },
		value:   func(l *model.Layer) string { return strconv.Itoa(*l.AggregateReset) },
	},
	moneyRule("sums_insured", func(l *model.Layer) *model.MoneyField { return l.SumsInsured }, false),
	moneyRule("retained_line", func(l *model.Layer) *model.MoneyField { return l.RetainedLine }, false),
	{
		name:    "number_of_lines",
		applies: func(l *model.Layer) bool { return l.NumberOfLines != nil && *l.NumberOfLines != 0 },
		value:   func(l *model.Layer) string { return formatNumber(*l.NumberOfLines) },
	},
	moneyRule("trigger", func(l *model.Layer) *model.MoneyField { return l.Trigger }, false),
	moneyRule("payout", func(l *model.Layer) *model.MoneyField { return l.Payout }, false),
	{
		name:    "payout_date",
		applies: func(l *model.Layer) bool { return isSet(l.PayoutDate) },
		value:   func(l *model.Layer) string { return FormatDate(l.PayoutDate.Time) },
	},
	moneyRule("payout", func(l *model.Layer) *model.MoneyField { return l.PayoutAmount }, false),
	moneyRule("premium", func(l *model.Layer) *model.MoneyField { return l.Premium }, false),
}

func moneyRule(name string, field func(l *model.Layer) *model.MoneyField, warnUnlimited bool) rule {
	r := rule{
		name:    name,
		applies: func(l *model.Layer) bool { return field(l) != nil },
		value:   func(l *model.Layer) string { return FormatMoney(*field(l)) },
	}
	if warnUnlimited {
		r.warn = func(l *model.Layer) bool { return field(l).Unlimited() }
	}
	return r
}

func isSet(ts *model.Timestamp) bool {
	return ts != nil && !ts.IsZero()
}

func coverage(l *model.Layer) string {
	start, end := "-inf", "inf"
	if isSet(l.InceptionDate) {
		start = FormatDate(l.InceptionDate.Time)
	}
	if isSet(l.ExpiryDate) {
		end = FormatDate(l.ExpiryDate.Time)
	}
	return "[" + start + ", " + end + "]"
}

func filters(l *model.Layer) string {
	switch n := len(l.Filters); {
	case n == 0:
		return "(empty)"
	case n > maxListedFilters:
		return "(" + strconv.Itoa(n) + " filters)"
	}
	names := l.FilterNames()
	for i, name := range names {
		names[i] = Quote(name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func reinstatements(l *model.Layer) string {
	if n := len(l.Reinstatements); n > maxListedReinsts {
		return strconv.Itoa(n)
	}
	parts := make([]string, len(l.Reinstatements))
	for i, r := range l.Reinstatements {
		parts[i] = formatFloat(r.Premium) + "/" + formatFloat(r.Brokerage)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Evaluate returns the terms that apply to l, in display order. Composite
// layers have no terms of their own; callers evaluate the sink instead.
func Evaluate(l *model.Layer) []Term {
	if l == nil {
		return nil
	}
	var out []Term
	for _, r := range rules {
		if !r.applies(l) {
			continue
		}
		t := Term{Name: r.name, Value: r.value(l)}
		if r.warn != nil {
			t.Warning = r.warn(l)
		}
		out = append(out, t)
	}
	return out
}

// Warning reports whether any term of ts carries a warning.
func Warning(ts []Term) bool {
	for _, t := range ts {
		if t.Warning {
			return true
		}
	}
	return false
}

// Join renders ts as newline-separated "name=value" lines with a single
// leading newline, or the empty string when there are no terms.
func Join(ts []Term) string {
	if len(ts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range ts {
		b.WriteByte('\n')
		b.WriteString(t.String())
	}
	return b.String()
}

// Format evaluates l and returns its label text and aggregate warning flag.
func Format(l *model.Layer) (string, bool) {
	ts := Evaluate(l)
	return Join(ts), Warning(ts)
}
