package simulation

import (
	"math"

	"readiness-mcp/internal/workflow"
	"readiness-mcp/internal/workspace"
)

// Policy pass multiplier per risk profile.
var riskMultiplier = map[workspace.RiskProfile]float64{
	workspace.RiskLow:        0.98,
	workspace.RiskMedium:     0.95,
	workspace.RiskHigh:       0.90,
	workspace.RiskEnterprise: 0.99,
}

// Relative amplitude of the per-factor variance term.
const (
	policyVariance      = 0.02
	citationVariance    = 0.03
	duplicationVariance = 0.05
	costVariance        = 0.15
	technicalVariance   = 0.02
)

// PolicyPassRate estimates the share of content passing policy review, in [0.5,1].
// It panics on a risk profile that Validate would reject.
func PolicyPassRate(ws *workspace.Context, p Parameters) float64 {
	mult := riskValue(riskMultiplier, ws.RiskProfile)
	v := 0.95 * mult * (1 - p.MarketVolatility*0.1) * p.ContentQuality
	v *= 1 + p.Noise.Policy*policyVariance
	return clamp(v, 0.5, 1.0)
}

// CitationCoverage estimates the share of claims backed by a citation, in [0.7,1].
func CitationCoverage(_ *workspace.Context, p Parameters) float64 {
	v := 0.92 * p.ContentQuality * (1 - p.MarketVolatility*0.05) * (1 - p.CompetitorActivity*0.03)
	v *= 1 + p.Noise.Citation*citationVariance
	return clamp(v, 0.7, 1.0)
}

// DuplicationRisk estimates the chance content is too close to prior posts, in [0,0.4].
// Higher is worse.
func DuplicationRisk(_ *workspace.Context, p Parameters) float64 {
	v := 0.08 + p.CompetitorActivity*0.1 + (1-p.ContentQuality)*0.15 + p.MarketVolatility*0.05
	v *= 1 + p.Noise.Duplication*duplicationVariance
	return clamp(v, 0.0, 0.4)
}

// CostEstimate projects campaign spend from the budget breakdown. The result
// never drops below 0.7 of the planned spend.
func CostEstimate(ws *workspace.Context, p Parameters) float64 {
	baseCost := ws.Budget.Breakdown.Total()
	multiplier := (1 + p.MarketVolatility*0.2) *
		(1 + p.CompetitorActivity*0.15) *
		p.SeasonalFactor *
		(2 - p.AvgPlatformHealth())
	multiplier *= 1 + p.Noise.Cost*costVariance
	return math.Max(0.7*baseCost, baseCost*math.Max(0.8, multiplier))
}

// TechnicalReadiness estimates whether the publishing stack can carry the
// workflow, in [0.6,1].
func TechnicalReadiness(_ *workspace.Context, p Parameters, nodeCount int) float64 {
	latencyImpact := math.Max(0, (p.APILatencyMs-100)/500)
	v := 0.88 *
		(1 - p.SystemLoad*0.2) *
		p.NetworkReliability *
		(1 - latencyImpact*0.1) *
		p.AvgPlatformHealth() *
		(1 - workflow.ComplexityFactor(nodeCount)*0.1)
	v *= 1 + p.Noise.Technical*technicalVariance
	return clamp(v, 0.6, 1.0)
}
