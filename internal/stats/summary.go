package stats

import (
	"math"
	"slices"
)

// Percentiles holds the fixed quantiles reported for every metric.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P95 float64 `json:"p95"`
}

// Interval is a normal-approximation confidence interval around a mean.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

// MetricSummary aggregates one metric across all Monte-Carlo iterations.
type MetricSummary struct {
	Mean        float64     `json:"mean"`
	Std         float64     `json:"std"`
	Percentiles Percentiles `json:"percentiles"`
	Confidence  Interval    `json:"confidence"`
	Samples     int         `json:"samples"`
}

// Summarize computes mean, sample std, percentiles and a confidence interval.
func Summarize(values []float64, level float64) MetricSummary {
	if len(values) == 0 {
		return MetricSummary{Confidence: Interval{Level: level}}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	slices.Sort(sorted)

	mean := Mean(values)
	std := StdDev(values)

	return MetricSummary{
		Mean: mean,
		Std:  std,
		Percentiles: Percentiles{
			P5:  percentileSorted(sorted, 0.05),
			P25: percentileSorted(sorted, 0.25),
			P50: percentileSorted(sorted, 0.50),
			P75: percentileSorted(sorted, 0.75),
			P95: percentileSorted(sorted, 0.95),
		},
		Confidence: ConfidenceInterval(mean, std, len(values), level),
		Samples:    len(values),
	}
}

// Finite reports whether every number in the summary is a real value.
func (m MetricSummary) Finite() bool {
	for _, v := range []float64{
		m.Mean, m.Std,
		m.Percentiles.P5, m.Percentiles.P25, m.Percentiles.P50, m.Percentiles.P75, m.Percentiles.P95,
		m.Confidence.Lower, m.Confidence.Upper,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
