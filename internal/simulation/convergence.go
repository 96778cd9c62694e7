package simulation

import (
	"math"

	"readiness-mcp/internal/stats"
)

const (
	// ConvergenceWindow is the number of trailing samples compared per check.
	ConvergenceWindow = 50
	// MinConvergenceSamples is the warm-up before the first check.
	MinConvergenceSamples = 2 * ConvergenceWindow
)

// IsConverged compares the mean of the last window samples with the mean of
// the window before it and reports whether they differ by less than threshold.
func IsConverged(samples []float64, window int, threshold float64) bool {
	n := len(samples)
	if window <= 0 || n < 2*window {
		return false
	}
	recent := stats.Mean(samples[n-window:])
	previous := stats.Mean(samples[n-2*window : n-window])
	return math.Abs(recent-previous) < threshold
}
