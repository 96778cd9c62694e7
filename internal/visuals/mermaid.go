package visuals

import (
	"fmt"
	"math"
	"strings"

	"readiness-mcp/internal/history"
	"readiness-mcp/internal/simulation"
	"readiness-mcp/internal/stats"
	"readiness-mcp/internal/workflow"
)

// GenerateReadinessChart creates a Mermaid xychart-beta of the readiness score percentiles.
func GenerateReadinessChart(summary stats.MetricSummary) string {
	if summary.Samples == 0 {
		return ""
	}
	p := summary.Percentiles

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Readiness Score Distribution (%d iterations)\"\n", summary.Samples))
	sb.WriteString("    x-axis [\"P5\", \"P25\", \"P50\", \"P75\", \"P95\"]\n")
	sb.WriteString("    y-axis \"Readiness\" 0 --> 1\n")
	sb.WriteString(fmt.Sprintf("    bar [%.3f, %.3f, %.3f, %.3f, %.3f]\n", p.P5, p.P25, p.P50, p.P75, p.P95))
	sb.WriteString(fmt.Sprintf("    line [%.3f, %.3f, %.3f, %.3f, %.3f]\n", summary.Mean, summary.Mean, summary.Mean, summary.Mean, summary.Mean))
	sb.WriteString("```")
	return sb.String()
}

// GenerateFactorChart creates a Mermaid bar chart of the weighted factor contributions.
// Duplication and cost are shown as their complements so taller is always better.
func GenerateFactorChart(res *simulation.Results, hardCap float64) string {
	if res == nil || hardCap <= 0 {
		return ""
	}
	costRisk := math.Min(1, res.CostEstimate.Mean/hardCap)
	contributions := []struct {
		label string
		value float64
	}{
		{"Policy", simulation.WeightPolicyPass * res.PolicyPass.Mean},
		{"Citations", simulation.WeightCitationCoverage * res.CitationCoverage.Mean},
		{"Originality", simulation.WeightDuplication * (1 - res.DuplicationRisk.Mean)},
		{"Budget", simulation.WeightCost * (1 - costRisk)},
		{"Technical", simulation.WeightTechnicalReadiness * res.TechnicalReadiness.Mean},
	}

	var labels, values []string
	for _, c := range contributions {
		labels = append(labels, fmt.Sprintf("\"%s\"", c.label))
		values = append(values, fmt.Sprintf("%.3f", c.value))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Readiness Contribution by Factor\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Weighted score\" 0 --> %.2f\n", simulation.WeightPolicyPass))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTraceFlowchart renders the workflow as a flowchart coloured by dry-run status.
// Publish traces hang off the workflow's terminal nodes.
func GenerateTraceFlowchart(nodes []workflow.Node, traces []simulation.Trace) string {
	if len(traces) == 0 {
		return ""
	}

	ids := make(map[string]string, len(traces))
	for i, t := range traces {
		ids[t.NodeID] = fmt.Sprintf("n%d", i)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("flowchart LR\n")
	for _, t := range traces {
		label := t.NodeID
		if strings.HasPrefix(label, simulation.PublishTracePrefix) {
			label = "publish " + strings.TrimPrefix(label, simulation.PublishTracePrefix)
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s<br/>%.0f ms\"]:::%s\n", ids[t.NodeID], escape(label), t.DurationMs, t.Status))
	}

	hasDependents := make(map[string]bool)
	for _, n := range nodes {
		for _, dep := range n.Dependencies {
			hasDependents[dep] = true
			if from, ok := ids[dep]; ok {
				if to, ok := ids[n.ID]; ok {
					sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
				}
			}
		}
	}
	for _, t := range traces {
		if !strings.HasPrefix(t.NodeID, simulation.PublishTracePrefix) {
			continue
		}
		for _, n := range nodes {
			if !hasDependents[n.ID] {
				sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", ids[n.ID], ids[t.NodeID]))
			}
		}
	}

	sb.WriteString("    classDef ok fill:#d4edda,stroke:#28a745\n")
	sb.WriteString("    classDef warning fill:#fff3cd,stroke:#ffc107\n")
	sb.WriteString("    classDef error fill:#f8d7da,stroke:#dc3545\n")
	sb.WriteString("```")
	return sb.String()
}

// GenerateHistoryChart plots the readiness of past runs, oldest first.
// runs is expected newest first, as returned by the history store.
func GenerateHistoryChart(runs []history.Run) string {
	if len(runs) == 0 {
		return ""
	}

	var labels, values []string
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		labels = append(labels, fmt.Sprintf("\"%s\"", r.CompletedAt.UTC().Format("01-02 15:04")))
		values = append(values, fmt.Sprintf("%.3f", r.ReadinessScore))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Readiness Trend\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Readiness\" 0 --> 1\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
