package service

import (
	"fmt"
	"strings"

	"readiness-mcp/internal/simulation"
	"readiness-mcp/internal/workspace"
)

// EvaluatePolicy compares the run's mean metrics with the workspace approval
// policy. Zero thresholds are not enforced. Publish actions whose dry run
// errored always block approval.
func EvaluatePolicy(policy workspace.ApprovalPolicy, res *simulation.Results, traces []simulation.Trace) Approval {
	a := Approval{
		RequiresHumanReview: policy.RequireHumanApproval,
		Violations:          []Violation{},
	}

	floor := func(metric string, threshold, actual float64) {
		if threshold > 0 && actual < threshold {
			a.Violations = append(a.Violations, Violation{
				Metric: metric, Threshold: threshold, Actual: actual,
				Message: fmt.Sprintf("%s %.3f is below the required %.3f", metric, actual, threshold),
			})
		}
	}
	ceiling := func(metric string, threshold, actual float64) {
		if threshold > 0 && actual > threshold {
			a.Violations = append(a.Violations, Violation{
				Metric: metric, Threshold: threshold, Actual: actual,
				Message: fmt.Sprintf("%s %.3f exceeds the allowed %.3f", metric, actual, threshold),
			})
		}
	}

	floor("readinessScore", policy.MinReadinessScore, res.ReadinessScore.Mean)
	floor("policyPassPct", policy.MinPolicyPassPct, res.PolicyPass.Mean)
	floor("citationCoverage", policy.MinCitationCoverage, res.CitationCoverage.Mean)
	ceiling("duplicationRisk", policy.MaxDuplicationRisk, res.DuplicationRisk.Mean)
	ceiling("costEstimateUSD", policy.MaxCostUSD, res.CostEstimate.Mean)

	for _, t := range traces {
		if t.Status == simulation.TraceError && strings.HasPrefix(t.NodeID, simulation.PublishTracePrefix) {
			a.BlockedPublishActions = append(a.BlockedPublishActions, t.NodeID)
		}
	}

	a.Approved = len(a.Violations) == 0 && len(a.BlockedPublishActions) == 0
	return a
}
