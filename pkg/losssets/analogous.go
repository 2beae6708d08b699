package losssets

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/model"
	"github.com/analyzere/extras/pkg/platform"
)

// Resource types created by the builder.
const (
	TypeParametricLossSet     = "ParametricLossSet"
	TypeAnalogousEventLossSet = "AnalogousEventLossSet"
	TypeCustomSeverity        = "CustomSeverityDistribution"
	TypeBinomialDistribution  = "BinomialDistribution"
	TypeDiracDistribution     = "DiracDistribution"
)

const (
	eventFilterType = "AnyOfFilter"
	eventAttribute  = "EventID"

	// descriptionPrefix marks generated distributions. Other tools search
	// for the same descriptions, so it must not change.
	descriptionPrefix = "ARe-Python-Extras AnalogousEventLossSetELS Generated Resource: "
)

// API is the part of the platform the builder needs. *platform.Client
// implements it.
type API interface {
	CreateLayerView(ctx context.Context, lv platform.NewLayerView) (string, error)
	YELT(ctx context.Context, layerViewID string) ([]byte, error)
	FindDistribution(ctx context.Context, search string) (*platform.Distribution, error)
	CreateDistribution(ctx context.Context, d platform.Distribution) (platform.Distribution, error)
	UploadDistributionData(ctx context.Context, id string, data []byte) error
	CreateLossSet(ctx context.Context, ls platform.ParametricLossSet) (platform.ParametricLossSet, error)
}

var _ API = (*platform.Client)(nil)

// Config describes an analogous event loss set.
type Config struct {
	// AnalysisProfile is the id of the profile the event layer views run in.
	AnalysisProfile string
	// Sources are the ids of the loss sets events are drawn from.
	Sources []string
	// SourceEvents are the event ids to replay, in order.
	SourceEvents []int64
	// Load scales every loss.
	Load float64
	// OccurrenceProbability is the chance the scenario occurs in a year.
	OccurrenceProbability float64
	// Description is set on the created loss set.
	Description string
}

// DefaultConfig returns a config with a load and occurrence probability of 1.
func DefaultConfig() Config {
	return Config{Load: 1.0, OccurrenceProbability: 1.0}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AnalysisProfile) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "analysis profile is required")
	}
	if len(c.SourceEvents) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one source event is required")
	}
	if c.Load < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "load must not be negative, got %v", c.Load)
	}
	if c.OccurrenceProbability < 0 || c.OccurrenceProbability > 1 {
		return errors.New(errors.ErrCodeInvalidOption, "occurrence probability must be within [0, 1], got %v", c.OccurrenceProbability)
	}
	return nil
}

// Result is a created loss set with the data it was built from.
type Result struct {
	LossSet      platform.ParametricLossSet
	Severity     Severity
	Distribution platform.Distribution
	Frequency    platform.Distribution
	Seasonality  platform.Distribution
	// Losses holds each event's YELT losses before the load is applied.
	Losses map[int64][]float64
}

// Builder creates analogous event loss sets on a platform.
type Builder struct {
	api    API
	logger *log.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder returns a builder backed by api.
func NewBuilder(api API, opts ...Option) *Builder {
	b := &Builder{api: api, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EventLayer returns the FilterLayer that keeps only event's losses from
// the given loss sets.
func EventLayer(event int64, sources []string) platform.FilterLayer {
	name := "Event " + strconv.FormatInt(event, 10)
	refs := make([]platform.Ref, len(sources))
	for i, id := range sources {
		refs[i] = platform.Ref{RefID: id}
	}
	return platform.FilterLayer{
		Type:        model.TypeFilterLayer,
		Description: name,
		Filters: []model.LossFilter{{
			Type:      eventFilterType,
			Name:      name,
			Attribute: eventAttribute,
			Values:    []any{event},
		}},
		LossSets: refs,
	}
}

// Losses downloads the losses of every distinct event in cfg.
func (b *Builder) Losses(ctx context.Context, cfg Config) (map[int64][]float64, error) {
	out := make(map[int64][]float64, len(cfg.SourceEvents))
	for _, ev := range cfg.SourceEvents {
		if _, done := out[ev]; done {
			continue
		}
		id, err := b.api.CreateLayerView(ctx, platform.NewLayerView{
			AnalysisProfile: platform.Ref{RefID: cfg.AnalysisProfile},
			Layer:           EventLayer(ev, cfg.Sources),
		})
		if err != nil {
			return nil, wrap(err, "create layer view for event %d", ev)
		}
		data, err := b.api.YELT(ctx, id)
		if err != nil {
			return nil, wrap(err, "download YELT for event %d", ev)
		}
		losses, err := ParseYELT(data)
		if err != nil {
			return nil, wrap(err, "event %d", ev)
		}
		b.logger.Debug("retrieved event losses", "event", ev, "layer_view", id, "losses", len(losses))
		out[ev] = losses
	}
	return out, nil
}

// Severity downloads the event losses and pools them without creating
// anything else.
func (b *Builder) Severity(ctx context.Context, cfg Config) (Severity, map[int64][]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	losses, err := b.Losses(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	sev, err := BuildSeverity(cfg.SourceEvents, losses, cfg.Load)
	if err != nil {
		return nil, nil, err
	}
	return sev, losses, nil
}

// Create builds the severity distribution, finds or creates the three
// distributions and saves the loss set.
func (b *Builder) Create(ctx context.Context, cfg Config) (*Result, error) {
	sev, losses, err := b.Severity(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res := &Result{Severity: sev, Losses: losses}

	data := sev.CSV()
	if res.Distribution, err = b.findOrCreate(ctx, platform.Distribution{
		Type:        TypeCustomSeverity,
		Description: SeverityDescription(data),
	}, []byte(data)); err != nil {
		return nil, err
	}

	n, p := 1, cfg.OccurrenceProbability
	if res.Frequency, err = b.findOrCreate(ctx, platform.Distribution{
		Type:        TypeBinomialDistribution,
		Description: FrequencyDescription(p),
		N:           &n,
		P:           &p,
	}, nil); err != nil {
		return nil, err
	}

	zero := 0.0
	if res.Seasonality, err = b.findOrCreate(ctx, platform.Distribution{
		Type:        TypeDiracDistribution,
		Description: SeasonalityDescription(),
		Value:       &zero,
	}, nil); err != nil {
		return nil, err
	}

	res.LossSet, err = b.api.CreateLossSet(ctx, platform.ParametricLossSet{
		Type:        TypeParametricLossSet,
		Description: cfg.Description,
		Frequency:   platform.Ref{RefID: res.Frequency.ID},
		Seasonality: platform.Ref{RefID: res.Seasonality.ID},
		Severity:    platform.Ref{RefID: res.Distribution.ID},
		MetaData:    MetaData(cfg),
	})
	if err != nil {
		return nil, wrap(err, "create loss set")
	}
	b.logger.Info("created analogous event loss set", "id", res.LossSet.ID, "events", len(cfg.SourceEvents), "outcomes", len(sev))
	return res, nil
}

// findOrCreate reuses the distribution carrying d's description, or creates
// d and uploads data to it when data is non-nil.
func (b *Builder) findOrCreate(ctx context.Context, d platform.Distribution, data []byte) (platform.Distribution, error) {
	found, err := b.api.FindDistribution(ctx, d.Description)
	if err != nil {
		return platform.Distribution{}, wrap(err, "search distributions")
	}
	if found != nil {
		b.logger.Debug("reusing distribution", "id", found.ID, "type", d.Type)
		return *found, nil
	}

	out, err := b.api.CreateDistribution(ctx, d)
	if err != nil {
		return platform.Distribution{}, wrap(err, "create %s", d.Type)
	}
	if data != nil {
		if err := b.api.UploadDistributionData(ctx, out.ID, data); err != nil {
			return platform.Distribution{}, wrap(err, "upload %s data", d.Type)
		}
	}
	return out, nil
}

// SeverityDescription names a severity distribution by the MD5 of its data.
func SeverityDescription(data string) string {
	sum := md5.Sum([]byte(data))
	return descriptionPrefix + hex.EncodeToString(sum[:])
}

// FrequencyDescription names the Binomial(1, p) frequency distribution.
func FrequencyDescription(p float64) string {
	return descriptionPrefix + "Frequency " + formatFloat(p)
}

// SeasonalityDescription names the Dirac(0) seasonality distribution.
func SeasonalityDescription() string {
	return descriptionPrefix + "Seasonality 0.0"
}

// MetaData records the inputs of cfg on the created loss set so it can be
// rebuilt later.
func MetaData(cfg Config) map[string]any {
	events := make([]string, len(cfg.SourceEvents))
	for i, ev := range cfg.SourceEvents {
		events[i] = strconv.FormatInt(ev, 10)
	}
	return map[string]any{
		"_type":                  TypeAnalogousEventLossSet,
		"analysis_profile":       cfg.AnalysisProfile,
		"source_events":          strings.Join(events, ","),
		"sources":                strings.Join(cfg.Sources, ","),
		"load":                   cfg.Load,
		"occurrence_probability": cfg.OccurrenceProbability,
	}
}

// wrap prefixes err's user message with context. The code and the cause
// chain are kept.
func wrap(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, format+": %s", append(args, errors.UserMessage(err))...)
}
