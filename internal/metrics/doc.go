// Package metrics turns raw request outcomes into run and session statistics.
//
// A run's outcomes are reduced in a single commutative pass by [Reduce]:
//
//	report := metrics.Reduce(runIndex, outcomes, elapsed)
//
// Successive run reports are folded into an [Aggregator], which keeps only
// additive state (counts, sums, extrema and a merged latency histogram) so the
// result does not depend on the order in which runs are folded:
//
//	agg := metrics.NewAggregator()
//	for _, r := range runs {
//		agg.Fold(r)
//	}
//	aggregate := agg.Finalize()
//
// # Status labels
//
// Every outcome lands in exactly one status bucket: the decimal HTTP status
// code, or [ErrorLabel] when the attempt produced no status. Only status 200
// counts as a success.
//
// # Latency
//
// Latencies are kept as [time.Duration] values. Minimum, average and maximum
// are exact; P50/P90/P99 come from an HDR histogram with microsecond
// resolution. Conversion to seconds and rounding is left to the output layer.
package metrics
