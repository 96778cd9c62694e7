package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"readiness-mcp/internal/service"
	"readiness-mcp/internal/simulation"
	"readiness-mcp/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const defaultRunLimit = 20

// Envelope wraps every successful tool result.
type Envelope struct {
	Data     any               `json:"data"`
	Guidance []string          `json:"guidance,omitempty"`
	Charts   map[string]string `json:"charts,omitempty"`
}

// ToolError is the body of a failed tool call.
type ToolError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func (s *Server) handleRunSimulation(ctx context.Context, _ *mcp.CallToolRequest, in RunSimulationInput) (*mcp.CallToolResult, any, error) {
	raw, err := workflowBytes(in.Workflow)
	if err != nil {
		return errorResult(&simulation.ValidationError{Field: "workflow", Message: err.Error()}), nil, nil
	}

	resp, err := s.svc.Run(ctx, service.Request{
		WorkspaceID:    in.WorkspaceID,
		WorkflowJSON:   raw,
		Iterations:     in.Iterations,
		RandomSeed:     in.RandomSeed,
		TimeoutSeconds: in.TimeoutSeconds,
		TargetChannels: in.TargetChannels,
	})
	if err != nil {
		return errorResult(err), nil, nil
	}

	env := Envelope{Data: resp, Guidance: guidanceFor(resp)}
	if s.cfg.EnableMermaidCharts {
		env.Charts = map[string]string{
			"readiness": visuals.GenerateReadinessChart(resp.Statistics.ReadinessScore),
			"factors":   visuals.GenerateFactorChart(resp.Statistics, resp.BudgetHardCapUSD),
			"traces":    visuals.GenerateTraceFlowchart(resp.Nodes(), resp.Traces),
		}
	}
	return textResult(env), nil, nil
}

func (s *Server) handleListRuns(_ context.Context, _ *mcp.CallToolRequest, in ListRunsInput) (*mcp.CallToolResult, any, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultRunLimit
	}
	runs, err := s.svc.History(in.WorkspaceID, limit)
	if err != nil {
		return errorResult(err), nil, nil
	}

	env := Envelope{Data: map[string]any{
		"workspaceId": in.WorkspaceID,
		"count":       len(runs),
		"runs":        runs,
	}}
	if len(runs) == 0 {
		env.Guidance = append(env.Guidance, "No runs recorded for this workspace yet. Run 'run_readiness_simulation' first.")
	}
	if !s.cfg.EnableRunHistory {
		env.Guidance = append(env.Guidance, "Run history is disabled on this server (ENABLE_RUN_HISTORY=false).")
	}
	if s.cfg.EnableMermaidCharts && len(runs) > 1 {
		env.Charts = map[string]string{"trend": visuals.GenerateHistoryChart(runs)}
	}
	return textResult(env), nil, nil
}

func (s *Server) handleGetModel(_ context.Context, _ *mcp.CallToolRequest, _ ModelInput) (*mcp.CallToolResult, any, error) {
	return textResult(Envelope{Data: map[string]any{
		"model":    simulation.Model(),
		"defaults": s.svc.Defaults(),
	}}), nil, nil
}

// workflowBytes accepts a decoded JSON value or a string holding JSON text.
func workflowBytes(v any) (json.RawMessage, error) {
	switch w := v.(type) {
	case nil:
		return nil, fmt.Errorf("workflow is required")
	case string:
		return json.RawMessage(w), nil
	default:
		raw, err := json.Marshal(w)
		if err != nil {
			return nil, fmt.Errorf("workflow is not serialisable: %w", err)
		}
		return raw, nil
	}
}

func guidanceFor(resp *service.Response) []string {
	var g []string
	if !resp.Statistics.Convergence.Converged {
		g = append(g, fmt.Sprintf("The readiness mean did not stabilise within %d iterations; treat the score as indicative and consider more iterations.", resp.Metadata.Iterations))
	}
	if !resp.Approval.Approved {
		g = append(g, "The run does not meet the workspace approval policy. Do NOT recommend publishing; list the violations to the user.")
	}
	if resp.Approval.RequiresHumanReview {
		g = append(g, "This workspace requires human approval before publishing regardless of the score.")
	}
	return g
}

func textResult(v any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: formatResult(v)}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	te := ToolError{Code: string(simulation.CodeOf(err)), Message: err.Error()}
	var wu *simulation.WorkspaceUnavailableError
	switch {
	case errors.As(err, &wu):
		te.Retryable = wu.Retryable()
	case te.Code == "" && errors.Is(err, context.Canceled):
		te.Code = "CANCELED"
	case te.Code == "":
		te.Code = "INTERNAL_ERROR"
	}
	log.Warn().Str("code", te.Code).Msg(te.Message)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: formatResult(te)}},
	}
}

func formatResult(data any) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
