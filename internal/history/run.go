package history

import (
	"fmt"
	"time"
)

// Run is the persisted digest of one completed simulation.
type Run struct {
	SimulationID       string    `json:"simulationId"`
	WorkspaceID        string    `json:"workspaceId"`
	StartedAt          time.Time `json:"startedAt"`
	CompletedAt        time.Time `json:"completedAt"`
	DurationMs         int64     `json:"durationMs"`
	Iterations         int       `json:"iterations"`
	RandomSeed         int64     `json:"randomSeed"`
	Channels           []string  `json:"channels,omitempty"`
	ReadinessScore     float64   `json:"readinessScore"`
	PolicyPassPct      float64   `json:"policyPassPct"`
	CitationCoverage   float64   `json:"citationCoverage"`
	DuplicationRisk    float64   `json:"duplicationRisk"`
	CostEstimateUSD    float64   `json:"costEstimateUSD"`
	TechnicalReadiness float64   `json:"technicalReadiness"`
	Converged          bool      `json:"converged"`
	Approved           bool      `json:"approved"`
	FailedNodes        int       `json:"failedNodes"`
	Version            string    `json:"version,omitempty"`
}

func (r Run) String() string {
	verdict := "blocked"
	if r.Approved {
		verdict = "approved"
	}
	return fmt.Sprintf("%s  %s  readiness=%.3f  iterations=%d  seed=%d  %s",
		r.CompletedAt.UTC().Format(time.RFC3339), r.SimulationID, r.ReadinessScore, r.Iterations, r.RandomSeed, verdict)
}
