package simulation

import (
	"fmt"
	"math"
)

// Readiness weights. They sum to exactly 1.0.
const (
	WeightPolicyPass         = 0.35
	WeightCitationCoverage   = 0.20
	WeightDuplication        = 0.15
	WeightCost               = 0.10
	WeightTechnicalReadiness = 0.20
)

// Factors are the five per-iteration factor outputs.
type Factors struct {
	PolicyPass         float64
	CitationCoverage   float64
	DuplicationRisk    float64
	CostEstimate       float64
	TechnicalReadiness float64
}

// CostRisk is the share of the hard cap consumed by cost, capped at 1.
func CostRisk(cost, hardCap float64) (float64, error) {
	if hardCap <= 0 || math.IsNaN(hardCap) {
		return 0, &ComputationError{Message: fmt.Sprintf("budget hard cap must be positive to compute cost risk, got %v", hardCap)}
	}
	return math.Min(1, cost/hardCap), nil
}

// ReadinessScore combines the factors with the fixed weights, clamped to [0,1].
func ReadinessScore(f Factors, hardCap float64) (float64, error) {
	costRisk, err := CostRisk(f.CostEstimate, hardCap)
	if err != nil {
		return 0, err
	}
	score := WeightPolicyPass*f.PolicyPass +
		WeightCitationCoverage*f.CitationCoverage +
		WeightDuplication*(1-f.DuplicationRisk) +
		WeightCost*(1-costRisk) +
		WeightTechnicalReadiness*f.TechnicalReadiness
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, &ComputationError{Message: "readiness score is not a finite number"}
	}
	return clamp(score, 0, 1), nil
}
