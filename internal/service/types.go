package service

import (
	"encoding/json"
	"time"

	"readiness-mcp/internal/simulation"
	"readiness-mcp/internal/stats"
	"readiness-mcp/internal/workflow"
)

// Request is a readiness simulation request. Nil optional fields fall back
// to the service defaults.
type Request struct {
	WorkspaceID    string          `json:"workspaceId"`
	WorkflowJSON   json.RawMessage `json:"workflowJson"`
	Iterations     *int            `json:"iterations,omitempty"`
	RandomSeed     *int64          `json:"randomSeed,omitempty"`
	TimeoutSeconds *int            `json:"timeoutSeconds,omitempty"`
	TargetChannels []string        `json:"targetChannels,omitempty"`
}

type Metadata struct {
	Iterations  int       `json:"iterations"`
	RandomSeed  int64     `json:"randomSeed"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
	DurationMs  int64     `json:"durationMs"`
	Version     string    `json:"version"`
}

// Violation is one approval policy threshold the run did not meet.
type Violation struct {
	Metric    string  `json:"metric"`
	Threshold float64 `json:"threshold"`
	Actual    float64 `json:"actual"`
	Message   string  `json:"message"`
}

// Approval is the publish gate derived from the workspace approval policy.
type Approval struct {
	Approved              bool        `json:"approved"`
	RequiresHumanReview   bool        `json:"requiresHumanReview"`
	Violations            []Violation `json:"violations"`
	BlockedPublishActions []string    `json:"blockedPublishActions,omitempty"`
}

// Response is the result of a readiness simulation.
type Response struct {
	SimulationID       string              `json:"simulationId"`
	WorkspaceID        string              `json:"workspaceId"`
	Channels           []string            `json:"channels"`
	ReadinessScore     float64             `json:"readinessScore"`
	PolicyPassPct      float64             `json:"policyPassPct"`
	CitationCoverage   float64             `json:"citationCoverage"`
	DuplicationRisk    float64             `json:"duplicationRisk"`
	CostEstimateUSD    float64             `json:"costEstimateUSD"`
	BudgetHardCapUSD   float64             `json:"budgetHardCapUSD"`
	TechnicalReadiness float64             `json:"technicalReadiness"`
	Traces             []simulation.Trace  `json:"traces"`
	Confidence         stats.Interval      `json:"confidence"`
	Metadata           Metadata            `json:"metadata"`
	Approval           Approval            `json:"approval"`
	Statistics         *simulation.Results `json:"statistics"`

	nodes []workflow.Node
}

// Nodes returns the parsed workflow the run was simulated against.
func (r *Response) Nodes() []workflow.Node {
	return r.nodes
}
