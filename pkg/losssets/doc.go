// Package losssets builds analogous event loss sets.
//
// An analogous event loss set replays a handful of historical events as a
// parametric loss set for scenario analysis. For every source event the
// builder saves a FilterLayer LayerView that keeps only that event's losses
// from the source loss sets and downloads its YELT. The losses are then
// pooled into a severity distribution:
//
//   - every event is equally likely
//   - an event's probability is split evenly over the losses it produced
//   - losses are scaled by the load, and equal losses are merged
//   - an event that produced no loss contributes its probability to 0.0
//
// The severity data is uploaded as a CustomSeverityDistribution next to a
// Binomial(1, p) frequency and a Dirac(0) seasonality, and the three back a
// new ParametricLossSet. Distributions are found by description before they
// are created, so identical inputs reuse the same resources.
//
//	b := losssets.NewBuilder(client)
//	res, err := b.Create(ctx, losssets.Config{
//	    AnalysisProfile: profileID,
//	    Sources:         []string{lossSetID},
//	    SourceEvents:    []int64{1017, 2240},
//	    Load:            1.0,
//	    OccurrenceProbability: 0.1,
//	})
package losssets
