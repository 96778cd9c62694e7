package simulation

import (
	"fmt"

	"readiness-mcp/internal/stats"
)

// Analyze turns raw samples into per-metric summaries plus convergence metadata.
func Analyze(out runOutput, cfg Config) (*Results, error) {
	n := len(out.samples)
	if n == 0 {
		return nil, &ComputationError{Message: "simulation produced no samples"}
	}

	readiness := make([]float64, n)
	policy := make([]float64, n)
	citation := make([]float64, n)
	duplication := make([]float64, n)
	cost := make([]float64, n)
	technical := make([]float64, n)
	for i, s := range out.samples {
		readiness[i] = s.ReadinessScore
		policy[i] = s.PolicyPass
		citation[i] = s.CitationCoverage
		duplication[i] = s.DuplicationRisk
		cost[i] = s.CostEstimate
		technical[i] = s.TechnicalReadiness
	}

	level := cfg.ConfidenceLevel
	results := &Results{
		ReadinessScore:     stats.Summarize(readiness, level),
		PolicyPass:         stats.Summarize(policy, level),
		CitationCoverage:   stats.Summarize(citation, level),
		DuplicationRisk:    stats.Summarize(duplication, level),
		CostEstimate:       stats.Summarize(cost, level),
		TechnicalReadiness: stats.Summarize(technical, level),
		Convergence: Convergence{
			Converged:          out.converged,
			RequiredIterations: n,
			StabilityThreshold: cfg.ConvergenceThreshold,
			EarlyTerminated:    out.earlyTerminated,
		},
		Iterations: n,
	}

	checks := []struct {
		name string
		m    stats.MetricSummary
	}{
		{"readinessScore", results.ReadinessScore},
		{"policyPassPct", results.PolicyPass},
		{"citationCoverage", results.CitationCoverage},
		{"duplicationRisk", results.DuplicationRisk},
		{"costEstimate", results.CostEstimate},
		{"technicalReadiness", results.TechnicalReadiness},
	}
	for _, c := range checks {
		if !c.m.Finite() {
			return nil, &ComputationError{Message: fmt.Sprintf("metric %s aggregated to a non-finite value", c.name)}
		}
	}
	return results, nil
}
