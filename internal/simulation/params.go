package simulation

import (
	"fmt"
	"math"

	"readiness-mcp/internal/workspace"
)

// Baseline volatility per risk profile.
var baseVolatility = map[workspace.RiskProfile]float64{
	workspace.RiskLow:        0.05,
	workspace.RiskMedium:     0.10,
	workspace.RiskHigh:       0.20,
	workspace.RiskEnterprise: 0.03,
}

// Gaussian baselines as mean, std, lower clamp, upper clamp.
type gaussianSpec struct {
	mean, std, lo, hi float64
}

var (
	competitorActivitySpec    = gaussianSpec{0.30, 0.15, 0, 1}
	contentQualitySpec        = gaussianSpec{0.80, 0.15, 0.3, 1}
	audienceReceptivenessSpec = gaussianSpec{0.75, 0.20, 0.2, 1}
	timingOptimizationSpec    = gaussianSpec{0.85, 0.10, 0.5, 1}
	apiLatencySpec            = gaussianSpec{100, 50, 10, math.Inf(1)}
	systemLoadSpec            = gaussianSpec{0.3, 0.2, 0.1, 0.9}
	networkReliabilitySpec    = gaussianSpec{0.95, 0.05, 0.8, 1}
)

const (
	algorithmStableProbability = 0.95
	algorithmDegradedFloor     = 0.7
	daysPerYear                = 365.0
)

// gaussian draws a standard normal via Box–Muller, consuming exactly two uniforms.
// u1 is taken as 1-Next() so it lies in (0,1] and the logarithm stays finite.
func gaussian(rng *RNG) float64 {
	u1 := 1 - rng.Next()
	u2 := rng.Next()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func (g gaussianSpec) draw(rng *RNG) float64 {
	return clamp(g.mean+gaussian(rng)*g.std, g.lo, g.hi)
}

// riskValue looks up a per-profile constant. An unknown profile is a caller
// bug: workspaces must pass Context.Validate before they reach the model.
func riskValue(table map[workspace.RiskProfile]float64, r workspace.RiskProfile) float64 {
	v, ok := table[r]
	if !ok {
		panic(fmt.Sprintf("simulation: unknown risk profile %q, validate the workspace first", r))
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SeasonalFactor models an annual cycle over the iteration index; it draws nothing.
func SeasonalFactor(iteration int) float64 {
	return 0.8 + 0.4*math.Sin(2*math.Pi*float64(iteration)/daysPerYear)
}

// algorithmChange maps one uniform draw to a platform algorithm multiplier:
// 1.0 with probability 0.95, otherwise a degraded value in [0.7,1.0).
func algorithmChange(u float64) float64 {
	if u < algorithmStableProbability {
		return 1.0
	}
	return algorithmDegradedFloor + (1-algorithmDegradedFloor)*(u-algorithmStableProbability)/(1-algorithmStableProbability)
}

// GenerateParameters draws the parameters of one iteration. The draw order is
// part of the determinism contract and must not change:
//
//	volatility(2) competitor(2) | per channel: health, rateLimit, algorithm |
//	content(2) audience(2) timing(2) latency(2) load(2) network(2) | noise(5)
//
// ws must have passed Validate; an unknown risk profile panics.
func GenerateParameters(rng *RNG, ws *workspace.Context, iteration int) Parameters {
	base := riskValue(baseVolatility, ws.RiskProfile)

	p := Parameters{
		MarketVolatility:   math.Max(0, base+gaussian(rng)*0.1),
		CompetitorActivity: competitorActivitySpec.draw(rng),
		SeasonalFactor:     SeasonalFactor(iteration),
	}

	channels := ws.PrimaryChannels
	p.Channels = channels
	p.PlatformHealth = make(map[string]float64, len(channels))
	p.RateLimits = make(map[string]float64, len(channels))
	p.AlgorithmChanges = make(map[string]float64, len(channels))
	for _, ch := range channels {
		p.PlatformHealth[ch] = 0.9 + 0.1*rng.Next()
		p.RateLimits[ch] = 0.8 + 0.2*rng.Next()
		p.AlgorithmChanges[ch] = algorithmChange(rng.Next())
	}

	p.ContentQuality = contentQualitySpec.draw(rng)
	p.AudienceReceptiveness = audienceReceptivenessSpec.draw(rng)
	p.TimingOptimization = timingOptimizationSpec.draw(rng)
	p.APILatencyMs = apiLatencySpec.draw(rng)
	p.SystemLoad = systemLoadSpec.draw(rng)
	p.NetworkReliability = networkReliabilitySpec.draw(rng)

	p.Noise = Noise{
		Policy:      symmetric(rng),
		Citation:    symmetric(rng),
		Duplication: symmetric(rng),
		Cost:        symmetric(rng),
		Technical:   symmetric(rng),
	}
	return p
}

// symmetric returns a uniform draw in [-1,1).
func symmetric(rng *RNG) float64 {
	return 2*rng.Next() - 1
}
