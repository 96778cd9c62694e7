package simulation

import "testing"

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestIsConverged(t *testing.T) {
	tests := []struct {
		name      string
		samples   []float64
		threshold float64
		want      bool
	}{
		{"too few samples", repeat(0.7, 99), 0.001, false},
		{"flat series", repeat(0.7, 100), 0.001, true},
		{"shifted windows", append(repeat(0.6, 50), repeat(0.7, 50)...), 0.001, false},
		{"shift below threshold", append(repeat(0.6, 50), repeat(0.7, 50)...), 0.2, true},
		{"only the last two windows count", append(repeat(0.1, 100), repeat(0.7, 100)...), 0.001, true},
		{"zero threshold never converges", repeat(0.7, 200), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConverged(tt.samples, ConvergenceWindow, tt.threshold); got != tt.want {
				t.Errorf("IsConverged = %v, want %v", got, tt.want)
			}
		})
	}
}
