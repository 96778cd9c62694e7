package stats

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the unbiased sample standard deviation (divides by n-1).
// Fewer than two samples have no spread and yield 0.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}

// Percentile returns the p-quantile (p in [0,1]) of values using linear
// interpolation between closest ranks (Hyndman & Fan type 7).
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	slices.Sort(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Common two-sided z values; other levels fall back to the inverse error function.
var zTable = map[float64]float64{
	0.80: 1.282,
	0.90: 1.645,
	0.95: 1.96,
	0.98: 2.326,
	0.99: 2.576,
}

// ZScore returns the two-sided normal critical value for a confidence level in (0,1).
func ZScore(level float64) float64 {
	if z, ok := zTable[level]; ok {
		return z
	}
	if level <= 0 || level >= 1 {
		return math.NaN()
	}
	return math.Sqrt2 * math.Erfinv(level)
}

// ConfidenceInterval returns mean ± z·(std/√n) for the given level.
func ConfidenceInterval(mean, std float64, n int, level float64) Interval {
	if n == 0 {
		return Interval{Lower: mean, Upper: mean, Level: level}
	}
	margin := ZScore(level) * std / math.Sqrt(float64(n))
	return Interval{
		Lower: mean - margin,
		Upper: mean + margin,
		Level: level,
	}
}
