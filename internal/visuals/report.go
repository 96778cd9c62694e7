package visuals

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"readiness-mcp/internal/service"
	"readiness-mcp/internal/workflow"
)

// RenderMarkdown produces a self-contained Markdown report of one simulation.
func RenderMarkdown(resp *service.Response, nodes []workflow.Node) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Campaign Readiness: %s\n\n", resp.WorkspaceID))
	sb.WriteString(fmt.Sprintf("Simulation `%s`, %d iterations, seed %d, channels %s.\n\n",
		resp.SimulationID, resp.Metadata.Iterations, resp.Metadata.RandomSeed, strings.Join(resp.Channels, ", ")))

	verdict := "**Approved**"
	if !resp.Approval.Approved {
		verdict = "**Blocked**"
	}
	if resp.Approval.RequiresHumanReview {
		verdict += " (human review required)"
	}
	sb.WriteString(verdict + "\n\n")

	sb.WriteString("| Metric | Mean | P5 | P95 |\n|---|---|---|---|\n")
	for _, row := range metricRows(resp) {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", row.Label, row.Mean, row.P5, row.P95))
	}
	sb.WriteString(fmt.Sprintf("\nReadiness %.0f%% confidence interval: [%.4f, %.4f]\n",
		resp.Confidence.Level*100, resp.Confidence.Lower, resp.Confidence.Upper))

	if len(resp.Approval.Violations) > 0 || len(resp.Approval.BlockedPublishActions) > 0 {
		sb.WriteString("\n## Policy findings\n\n")
		for _, v := range resp.Approval.Violations {
			sb.WriteString("- " + v.Message + "\n")
		}
		for _, a := range resp.Approval.BlockedPublishActions {
			sb.WriteString(fmt.Sprintf("- dry run of `%s` failed\n", a))
		}
	}

	for _, chart := range charts(resp, nodes) {
		sb.WriteString("\n" + chart.Markdown + "\n")
	}
	return sb.String()
}

type metricRow struct {
	Label, Mean, P5, P95 string
}

func metricRows(resp *service.Response) []metricRow {
	s := resp.Statistics
	pct := func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }
	usd := func(v float64) string { return fmt.Sprintf("$%.0f", v) }
	return []metricRow{
		{"Readiness score", fmt.Sprintf("%.4f", s.ReadinessScore.Mean), fmt.Sprintf("%.4f", s.ReadinessScore.Percentiles.P5), fmt.Sprintf("%.4f", s.ReadinessScore.Percentiles.P95)},
		{"Policy pass", pct(s.PolicyPass.Mean), pct(s.PolicyPass.Percentiles.P5), pct(s.PolicyPass.Percentiles.P95)},
		{"Citation coverage", pct(s.CitationCoverage.Mean), pct(s.CitationCoverage.Percentiles.P5), pct(s.CitationCoverage.Percentiles.P95)},
		{"Duplication risk", pct(s.DuplicationRisk.Mean), pct(s.DuplicationRisk.Percentiles.P5), pct(s.DuplicationRisk.Percentiles.P95)},
		{"Cost estimate", usd(s.CostEstimate.Mean), usd(s.CostEstimate.Percentiles.P5), usd(s.CostEstimate.Percentiles.P95)},
		{"Technical readiness", pct(s.TechnicalReadiness.Mean), pct(s.TechnicalReadiness.Percentiles.P5), pct(s.TechnicalReadiness.Percentiles.P95)},
	}
}

type chart struct {
	Markdown string
	Source   string
}

func charts(resp *service.Response, nodes []workflow.Node) []chart {
	var out []chart
	for _, md := range []string{
		GenerateReadinessChart(resp.Statistics.ReadinessScore),
		GenerateFactorChart(resp.Statistics, resp.BudgetHardCapUSD),
		GenerateTraceFlowchart(nodes, resp.Traces),
	} {
		if md == "" {
			continue
		}
		src := strings.TrimSuffix(strings.TrimPrefix(md, "```mermaid\n"), "```")
		out = append(out, chart{Markdown: md, Source: src})
	}
	return out
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Campaign Readiness: {{.Resp.WorkspaceID}}</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
td:first-child { text-align: left; }
.approved { color: #28a745; } .blocked { color: #dc3545; }
</style>
</head>
<body>
<h1>Campaign Readiness: {{.Resp.WorkspaceID}}</h1>
<p>Simulation <code>{{.Resp.SimulationID}}</code>, {{.Resp.Metadata.Iterations}} iterations, seed {{.Resp.Metadata.RandomSeed}}.</p>
{{if .Resp.Approval.Approved}}<h2 class="approved">Approved</h2>{{else}}<h2 class="blocked">Blocked</h2>{{end}}
<ul>{{range .Resp.Approval.Violations}}<li>{{.Message}}</li>{{end}}{{range .Resp.Approval.BlockedPublishActions}}<li>dry run of {{.}} failed</li>{{end}}</ul>
<table>
<tr><th>Metric</th><th>Mean</th><th>P5</th><th>P95</th></tr>
{{range .Rows}}<tr><td>{{.Label}}</td><td>{{.Mean}}</td><td>{{.P5}}</td><td>{{.P95}}</td></tr>
{{end}}</table>
{{range .Charts}}<pre class="mermaid">
{{.Source}}</pre>
{{end}}
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
</body>
</html>
`))

// RenderHTML produces a standalone HTML report that renders its charts with Mermaid in the browser.
func RenderHTML(resp *service.Response, nodes []workflow.Node) ([]byte, error) {
	var buf bytes.Buffer
	err := htmlReport.Execute(&buf, struct {
		Resp   *service.Response
		Rows   []metricRow
		Charts []chart
	}{resp, metricRows(resp), charts(resp, nodes)})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
