package simulation

import (
	"math"
	"reflect"
	"testing"

	"readiness-mcp/internal/workspace"
)

func testWorkspace(risk workspace.RiskProfile, channels ...string) *workspace.Context {
	return &workspace.Context{
		ID:              "ws-test",
		PrimaryChannels: channels,
		RiskProfile:     risk,
		Budget: workspace.Budget{
			Currency: "USD",
			HardCap:  4000,
			Breakdown: workspace.BudgetBreakdown{
				PaidMedia:         1500,
				ContentProduction: 800,
				Tooling:           300,
				Contingency:       200,
			},
		},
	}
}

func TestGenerateParameters_Deterministic(t *testing.T) {
	ws := testWorkspace(workspace.RiskMedium, "linkedin", "x")
	a := GenerateParameters(NewStream(42, 7), ws, 7)
	b := GenerateParameters(NewStream(42, 7), ws, 7)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same stream produced different parameters:\n%+v\n%+v", a, b)
	}
}

func TestGenerateParameters_DrawCount(t *testing.T) {
	// 2 (volatility) + 2 (competitor) + 3 per channel + 6×2 (gaussians) + 5 (noise).
	ws := testWorkspace(workspace.RiskLow, "linkedin", "x")
	used := NewStream(1, 3)
	GenerateParameters(used, ws, 3)

	fresh := NewStream(1, 3)
	for i := 0; i < 2+2+3*2+12+5; i++ {
		fresh.Next()
	}
	if used.Next() != fresh.Next() {
		t.Error("GenerateParameters consumed an unexpected number of draws")
	}
}

func TestGenerateParameters_Bounds(t *testing.T) {
	ws := testWorkspace(workspace.RiskHigh, "linkedin", "x", "instagram")
	for i := 0; i < 2000; i++ {
		p := GenerateParameters(NewStream(99, uint64(i)), ws, i)

		checks := []struct {
			name   string
			v      float64
			lo, hi float64
		}{
			{"MarketVolatility", p.MarketVolatility, 0, math.Inf(1)},
			{"CompetitorActivity", p.CompetitorActivity, 0, 1},
			{"SeasonalFactor", p.SeasonalFactor, 0.4, 1.2},
			{"ContentQuality", p.ContentQuality, 0.3, 1},
			{"AudienceReceptiveness", p.AudienceReceptiveness, 0.2, 1},
			{"TimingOptimization", p.TimingOptimization, 0.5, 1},
			{"APILatencyMs", p.APILatencyMs, 10, math.Inf(1)},
			{"SystemLoad", p.SystemLoad, 0.1, 0.9},
			{"NetworkReliability", p.NetworkReliability, 0.8, 1},
		}
		for _, c := range checks {
			if c.v < c.lo || c.v > c.hi || math.IsNaN(c.v) {
				t.Fatalf("iteration %d: %s = %v outside [%v,%v]", i, c.name, c.v, c.lo, c.hi)
			}
		}

		for _, ch := range ws.PrimaryChannels {
			if h := p.PlatformHealth[ch]; h < 0.9 || h >= 1 {
				t.Fatalf("platform health %v outside [0.9,1)", h)
			}
			if rl := p.RateLimits[ch]; rl < 0.8 || rl >= 1 {
				t.Fatalf("rate limit %v outside [0.8,1)", rl)
			}
			if ac := p.AlgorithmChanges[ch]; ac != 1.0 && (ac < 0.7 || ac >= 1) {
				t.Fatalf("algorithm change %v outside {1} ∪ [0.7,1)", ac)
			}
		}
		for _, n := range []float64{p.Noise.Policy, p.Noise.Citation, p.Noise.Duplication, p.Noise.Cost, p.Noise.Technical} {
			if n < -1 || n >= 1 {
				t.Fatalf("noise %v outside [-1,1)", n)
			}
		}
	}
}

func TestAlgorithmChange(t *testing.T) {
	tests := []struct {
		u    float64
		want float64
	}{
		{0, 1.0},
		{0.5, 1.0},
		{0.949, 1.0},
		{0.95, 0.7},
		{0.975, 0.85},
	}
	for _, tt := range tests {
		if got := algorithmChange(tt.u); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("algorithmChange(%v) = %v, want %v", tt.u, got, tt.want)
		}
	}
	if got := algorithmChange(0.9999999); got >= 1 {
		t.Errorf("degraded branch must stay below 1, got %v", got)
	}
}

func TestSeasonalFactor(t *testing.T) {
	if got := SeasonalFactor(0); got != 0.8 {
		t.Errorf("SeasonalFactor(0) = %v, want 0.8", got)
	}
	if got := SeasonalFactor(365); math.Abs(got-0.8) > 1e-12 {
		t.Errorf("SeasonalFactor(365) = %v, want 0.8 (annual cycle)", got)
	}
	if peak := SeasonalFactor(91); peak < 1.19 {
		t.Errorf("expected near-peak factor around day 91, got %v", peak)
	}
}

func TestAvgPlatformHealth(t *testing.T) {
	p := Parameters{}
	if got := p.AvgPlatformHealth(); got != 1.0 {
		t.Errorf("no channels should average to 1.0, got %v", got)
	}
	p.Channels = []string{"a", "b"}
	p.PlatformHealth = map[string]float64{"a": 0.9, "b": 1.0}
	if got := p.AvgPlatformHealth(); math.Abs(got-0.95) > 1e-12 {
		t.Errorf("expected 0.95, got %v", got)
	}
}
