package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/analyzere/extras/pkg/errors"
)

// Layer type names used by the platform.
const (
	TypeCatXL                = "CatXL"
	TypeAggXL                = "AggXL"
	TypeQuotaShare           = "QuotaShare"
	TypeSurplusShare         = "SurplusShare"
	TypeIndustryLossWarranty = "IndustryLossWarranty"
	TypeNoClaimsBonus        = "NoClaimsBonus"
	TypeFilterLayer          = "FilterLayer"
	TypeNestedLayer          = "NestedLayer"
	TypeGeneric              = "Generic"
)

// Unlimited is the sentinel money value the platform uses for "no limit".
const Unlimited = math.MaxFloat64

// MoneyField is a currency-tagged amount.
type MoneyField struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Unlimited reports whether the amount carries the unlimited sentinel.
func (m MoneyField) Unlimited() bool {
	return m.Value >= Unlimited
}

// Reinstatement is one premium/brokerage pair of a layer's reinstatement terms.
type Reinstatement struct {
	Premium   float64 `json:"premium"`
	Brokerage float64 `json:"brokerage"`
}

// LossFilter is a filter applied by a FilterLayer.
type LossFilter struct {
	Type      string `json:"_type,omitempty"`
	Name      string `json:"name"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// LossSet is a named collection of loss records attached to a layer.
type LossSet struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"_type"`
	Description string `json:"description,omitempty"`
}

// Timestamp is a platform date field. It accepts RFC 3339 timestamps as well
// as bare dates and always holds UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NewTimestamp returns a Timestamp for t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t.UTC()}
}

// UnmarshalJSON parses any of the accepted timestamp layouts.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t.UTC()
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid timestamp: %q", s)
}

// MarshalJSON writes the timestamp as RFC 3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Time.UTC().Format(time.RFC3339Nano))
}

// Layer is one node of a reinsurance structure. All variants share this
// record; fields a variant does not define stay nil.
//
// Filters and Reinstatements are nil when the platform omitted them and
// non-nil (possibly empty) when it sent them.
type Layer struct {
	Type        string `json:"_type"`
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`

	InceptionDate *Timestamp `json:"inception_date,omitempty"`
	ExpiryDate    *Timestamp `json:"expiry_date,omitempty"`

	Participation *float64 `json:"participation,omitempty"`
	Criterion     *string  `json:"criterion,omitempty"`
	Count         *int     `json:"count,omitempty"`

	Filters []LossFilter `json:"filters"`
	Invert  *bool        `json:"invert,omitempty"`

	Attachment     *MoneyField     `json:"attachment,omitempty"`
	Limit          *MoneyField     `json:"limit,omitempty"`
	Nth            *int            `json:"nth,omitempty"`
	Reinstatements []Reinstatement `json:"reinstatements"`
	Franchise      *MoneyField     `json:"franchise,omitempty"`
	EventLimit     *MoneyField     `json:"event_limit,omitempty"`

	AggregateAttachment *MoneyField `json:"aggregate_attachment,omitempty"`
	AggregateLimit      *MoneyField `json:"aggregate_limit,omitempty"`
	AggregatePeriod     *float64    `json:"aggregate_period,omitempty"`
	AggregateReset      *int        `json:"aggregate_reset,omitempty"`

	SumsInsured   *MoneyField `json:"sums_insured,omitempty"`
	RetainedLine  *MoneyField `json:"retained_line,omitempty"`
	NumberOfLines *float64    `json:"number_of_lines,omitempty"`

	Trigger      *MoneyField `json:"trigger,omitempty"`
	Payout       *MoneyField `json:"payout,omitempty"`
	PayoutDate   *Timestamp  `json:"payout_date,omitempty"`
	PayoutAmount *MoneyField `json:"payout_amount,omitempty"`

	Premium *MoneyField `json:"premium,omitempty"`

	LossSets []LossSet `json:"loss_sets,omitempty"`

	// NestedLayer only.
	Sink    *Layer   `json:"sink,omitempty"`
	Sources []*Layer `json:"sources,omitempty"`
}

// IsNested reports whether the layer is a NestedLayer composition node.
func (l *Layer) IsNested() bool {
	return l.Type == TypeNestedLayer
}

// HasFilters reports whether the filters attribute is present, even if empty.
func (l *Layer) HasFilters() bool {
	return l.Filters != nil
}

// FilterNames returns the names of the layer's filters in order.
func (l *Layer) FilterNames() []string {
	names := make([]string, len(l.Filters))
	for i, f := range l.Filters {
		names[i] = f.Name
	}
	return names
}

// Validate checks that the layer and everything below it is well formed:
// every layer has a type and every NestedLayer has a sink.
func (l *Layer) Validate() error {
	return l.validate("layer")
}

func (l *Layer) validate(path string) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidLayerView, "%s is missing", path)
	}
	if strings.TrimSpace(l.Type) == "" {
		return errors.New(errors.ErrCodeInvalidLayerView, "%s has no _type", path)
	}
	if !l.IsNested() {
		return nil
	}
	if l.Sink == nil {
		return errors.New(errors.ErrCodeInvalidLayerView, "%s is a NestedLayer without a sink", path)
	}
	if err := l.Sink.validate(path + ".sink"); err != nil {
		return err
	}
	for i, src := range l.Sources {
		if err := src.validate(path + ".sources[" + strconv.Itoa(i) + "]"); err != nil {
			return err
		}
	}
	return nil
}

// LayerView is the retrievable wrapper around a layer tree.
type LayerView struct {
	ID    string `json:"id"`
	Layer *Layer `json:"layer"`
}

// Validate reports an INVALID_LAYER_VIEW error if lv cannot be walked.
func (lv *LayerView) Validate() error {
	if lv == nil {
		return errors.New(errors.ErrCodeInvalidLayerView, "must supply a valid LayerView")
	}
	if lv.Layer == nil {
		return errors.New(errors.ErrCodeInvalidLayerView, "must supply a valid LayerView: layer is missing")
	}
	return lv.Layer.Validate()
}
