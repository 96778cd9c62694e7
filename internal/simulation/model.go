package simulation

import "readiness-mcp/internal/workspace"

// Distribution describes a clamped Gaussian baseline.
type Distribution struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max,omitempty"`
}

// ModelDescription is a read-only view of the constants behind a readiness score.
type ModelDescription struct {
	Weights               map[string]float64                `json:"weights"`
	BaseVolatility        map[workspace.RiskProfile]float64 `json:"baseVolatility"`
	PolicyRiskMultiplier  map[workspace.RiskProfile]float64 `json:"policyRiskMultiplier"`
	Baselines             map[string]Distribution           `json:"baselines"`
	AlgorithmStableProb   float64                           `json:"algorithmStableProbability"`
	ConvergenceWindow     int                               `json:"convergenceWindow"`
	MinConvergenceSamples int                               `json:"minConvergenceSamples"`
	IterationBounds       [2]int                            `json:"iterationBounds"`
	TimeoutSecondsBounds  [2]int                            `json:"timeoutSecondsBounds"`
	ScoreFormula          string                            `json:"scoreFormula"`
	CostFormula           string                            `json:"costFormula"`
	// UnscoredParameters are drawn every iteration but feed no factor.
	UnscoredParameters []string `json:"unscoredParameters"`
}

func (g gaussianSpec) describe() Distribution {
	d := Distribution{Mean: g.mean, Std: g.std, Min: g.lo}
	if g.hi < 1e300 {
		d.Max = g.hi
	}
	return d
}

// Model describes the scoring model so callers can explain a result.
func Model() ModelDescription {
	vol := make(map[workspace.RiskProfile]float64, len(baseVolatility))
	for k, v := range baseVolatility {
		vol[k] = v
	}
	mult := make(map[workspace.RiskProfile]float64, len(riskMultiplier))
	for k, v := range riskMultiplier {
		mult[k] = v
	}
	return ModelDescription{
		Weights: map[string]float64{
			"policyPass":         WeightPolicyPass,
			"citationCoverage":   WeightCitationCoverage,
			"duplication":        WeightDuplication,
			"cost":               WeightCost,
			"technicalReadiness": WeightTechnicalReadiness,
		},
		BaseVolatility:       vol,
		PolicyRiskMultiplier: mult,
		Baselines: map[string]Distribution{
			"competitorActivity":    competitorActivitySpec.describe(),
			"contentQuality":        contentQualitySpec.describe(),
			"audienceReceptiveness": audienceReceptivenessSpec.describe(),
			"timingOptimization":    timingOptimizationSpec.describe(),
			"apiLatencyMs":          apiLatencySpec.describe(),
			"systemLoad":            systemLoadSpec.describe(),
			"networkReliability":    networkReliabilitySpec.describe(),
		},
		AlgorithmStableProb:   algorithmStableProbability,
		ConvergenceWindow:     ConvergenceWindow,
		MinConvergenceSamples: MinConvergenceSamples,
		IterationBounds:       [2]int{MinIterations, MaxIterations},
		TimeoutSecondsBounds:  [2]int{MinTimeoutSeconds, MaxTimeoutSeconds},
		ScoreFormula:          "0.35*policyPass + 0.20*citationCoverage + 0.15*(1-duplicationRisk) + 0.10*(1-min(1,cost/hardCap)) + 0.20*technicalReadiness",
		UnscoredParameters:    []string{"rateLimits", "algorithmChanges", "audienceReceptiveness", "timingOptimization"},
		CostFormula:           "max(0.7*base, base*max(0.8, (1+0.2*vol)(1+0.15*comp)*seasonal*(2-avgPlatformHealth)*(1+0.15*noise)))",
	}
}
