package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RunSimulationInput is the argument set of run_readiness_simulation.
type RunSimulationInput struct {
	WorkspaceID    string   `json:"workspace_id" jsonschema:"ID of the campaign workspace to simulate"`
	Workflow       any      `json:"workflow" jsonschema:"Workflow definition: an object with a nodes array, a bare nodes array, or the same as a JSON string. Each node has id, type, dependencies, estimatedDuration (ms) and failureRate (0-1)."`
	Iterations     *int     `json:"iterations,omitempty" jsonschema:"Monte-Carlo iterations, 1-10000. Default 1000."`
	RandomSeed     *int64   `json:"random_seed,omitempty" jsonschema:"Seed for reproducible results. Default 42."`
	TimeoutSeconds *int     `json:"timeout_seconds,omitempty" jsonschema:"Wall-clock budget, 10-600 seconds. Default 120."`
	TargetChannels []string `json:"target_channels,omitempty" jsonschema:"Optional channels replacing the workspace's primary channels for this run."`
}

// ListRunsInput is the argument set of list_simulation_runs.
type ListRunsInput struct {
	WorkspaceID string `json:"workspace_id" jsonschema:"ID of the campaign workspace"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of runs to return, newest first. Default 20."`
}

// ModelInput is the (empty) argument set of get_readiness_model.
type ModelInput struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "run_readiness_simulation",
		Description: "Run a seeded Monte-Carlo simulation estimating whether a campaign workflow is ready to publish for a workspace. " +
			"Returns readiness score, policy pass rate, citation coverage, duplication risk, cost estimate (USD) and technical readiness as means over all iterations, " +
			"a dry-run trace per workflow node and channel, a confidence interval and an approval verdict against the workspace policy.\n\n" +
			"STRICT GUARDRAIL: Report the numbers as returned. The same workspace, workflow and seed always give the same result; " +
			"do NOT re-run with different seeds to shop for a better score.",
	}, s.handleRunSimulation)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_simulation_runs",
		Description: "List previous readiness simulations of a workspace, newest first, to show how readiness evolved.",
	}, s.handleListRuns)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_readiness_model",
		Description: "Describe the readiness model: factor weights, risk tables, parameter baselines and request bounds. Use it to explain a score, not to recompute one.",
	}, s.handleGetModel)
}
