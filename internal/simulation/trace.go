package simulation

import (
	"fmt"
	"math"

	"readiness-mcp/internal/workflow"
	"readiness-mcp/internal/workspace"
)

type TraceStatus string

const (
	TraceOK      TraceStatus = "ok"
	TraceWarning TraceStatus = "warning"
	TraceError   TraceStatus = "error"
)

// Trace is the dry-run outcome of one workflow node or publish action.
type Trace struct {
	NodeID     string      `json:"nodeId"`
	Status     TraceStatus `json:"status"`
	DurationMs float64     `json:"durationMs"`
	Message    string      `json:"message,omitempty"`
}

const (
	// traceStream sits far above any iteration index.
	traceStream              = uint64(1) << 40
	defaultNodeDurationMs    = 100.0
	publishBaseLatencyMs     = 200.0
	publishLatencySpreadMs   = 300.0
	PublishTracePrefix       = "publish:"
	warningFailureMultiplier = 2.0
)

// GenerateTraces produces one trace per workflow node, in order, followed by
// one publish action per channel. It uses its own RNG stream so it never
// shifts the draws of the statistical core.
func GenerateTraces(seed int64, ws *workspace.Context, nodes []workflow.Node) []Trace {
	rng := NewStream(seed, traceStream)
	traces := make([]Trace, 0, len(nodes)+len(ws.PrimaryChannels))
	failed := make(map[string]bool)

	for _, n := range nodes {
		expected := n.EstimatedDuration
		if expected <= 0 {
			expected = defaultNodeDurationMs
		}
		t := Trace{
			NodeID:     n.ID,
			Status:     TraceOK,
			DurationMs: round1(expected * (0.8 + 0.4*rng.Next())),
		}

		u := rng.Next()
		switch {
		case u < n.FailureRate:
			t.Status = TraceError
			t.Message = fmt.Sprintf("%s node failed in dry run (failure rate %.0f%%)", n.Type, n.FailureRate*100)
			failed[n.ID] = true
		case u < math.Min(1, n.FailureRate*warningFailureMultiplier):
			t.Status = TraceWarning
			t.Message = fmt.Sprintf("%s node close to its failure threshold", n.Type)
		}

		if t.Status != TraceError {
			for _, dep := range n.Dependencies {
				if failed[dep] {
					t.Status = TraceWarning
					t.Message = fmt.Sprintf("upstream node %s failed", dep)
					break
				}
			}
		}
		traces = append(traces, t)
	}

	for _, ch := range ws.PrimaryChannels {
		t := Trace{
			NodeID:     PublishTracePrefix + ch,
			Status:     TraceOK,
			DurationMs: round1(publishBaseLatencyMs + publishLatencySpreadMs*rng.Next()),
		}
		if len(ws.Connectors) > 0 {
			h, ok := ws.Connector(ch)
			switch {
			case !ok:
				t.Status = TraceWarning
				t.Message = fmt.Sprintf("no connector health reported for %s", ch)
			case h.Status == workspace.ConnectorDown:
				t.Status = TraceError
				t.Message = fmt.Sprintf("%s connector is down", ch)
			case h.Status == workspace.ConnectorDegraded:
				t.Status = TraceWarning
				t.Message = fmt.Sprintf("%s connector is degraded", ch)
			}
		}
		traces = append(traces, t)
	}
	return traces
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
