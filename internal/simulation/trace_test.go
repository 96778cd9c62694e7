package simulation

import (
	"reflect"
	"strings"
	"testing"

	"readiness-mcp/internal/workflow"
	"readiness-mcp/internal/workspace"
)

func TestGenerateTraces_Order(t *testing.T) {
	ws := testWorkspace(workspace.RiskLow, "linkedin", "x")
	traces := GenerateTraces(42, ws, threeNodes)

	want := []string{"draft", "review", "publish", "publish:linkedin", "publish:x"}
	if len(traces) != len(want) {
		t.Fatalf("got %d traces, want %d", len(traces), len(want))
	}
	for i, id := range want {
		if traces[i].NodeID != id {
			t.Errorf("trace %d: node %q, want %q", i, traces[i].NodeID, id)
		}
	}

	if again := GenerateTraces(42, ws, threeNodes); !reflect.DeepEqual(traces, again) {
		t.Error("traces are not deterministic for a fixed seed")
	}
}

func TestGenerateTraces_Durations(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "a", Type: "generate", EstimatedDuration: 1000},
		{ID: "b", Type: "generate"},
	}
	for seed := int64(0); seed < 50; seed++ {
		traces := GenerateTraces(seed, testWorkspace(workspace.RiskLow, "linkedin"), nodes)
		if d := traces[0].DurationMs; d < 800 || d > 1200 {
			t.Errorf("seed %d: duration %v outside [800,1200]", seed, d)
		}
		if d := traces[1].DurationMs; d < 80 || d > 120 {
			t.Errorf("seed %d: default duration %v outside [80,120]", seed, d)
		}
		if d := traces[2].DurationMs; d < 200 || d > 500 {
			t.Errorf("seed %d: publish latency %v outside [200,500]", seed, d)
		}
	}
}

func TestGenerateTraces_FailurePropagation(t *testing.T) {
	nodes := []workflow.Node{
		{ID: "broken", Type: "generate", FailureRate: 1},
		{ID: "downstream", Type: "publish", Dependencies: []string{"broken"}},
		{ID: "independent", Type: "generate"},
	}
	traces := GenerateTraces(7, testWorkspace(workspace.RiskLow), nodes)

	if traces[0].Status != TraceError {
		t.Errorf("failure rate 1 should always fail, got %s", traces[0].Status)
	}
	if traces[1].Status != TraceWarning || !strings.Contains(traces[1].Message, "broken") {
		t.Errorf("dependent node should warn about its failed upstream, got %+v", traces[1])
	}
	if traces[2].Status != TraceOK {
		t.Errorf("failure rate 0 should never fail, got %+v", traces[2])
	}
}

func TestGenerateTraces_ConnectorHealth(t *testing.T) {
	ws := testWorkspace(workspace.RiskLow, "linkedin", "x", "instagram", "threads")
	ws.Connectors = []workspace.ConnectorHealth{
		{Channel: "linkedin", Status: workspace.ConnectorHealthy},
		{Channel: "x", Status: workspace.ConnectorDegraded},
		{Channel: "instagram", Status: workspace.ConnectorDown},
	}
	traces := GenerateTraces(1, ws, nil)

	want := map[string]TraceStatus{
		"publish:linkedin":  TraceOK,
		"publish:x":         TraceWarning,
		"publish:instagram": TraceError,
		"publish:threads":   TraceWarning,
	}
	for _, tr := range traces {
		if tr.Status != want[tr.NodeID] {
			t.Errorf("%s: status %s, want %s", tr.NodeID, tr.Status, want[tr.NodeID])
		}
	}

	ws.Connectors = nil
	for _, tr := range GenerateTraces(1, ws, nil) {
		if tr.Status != TraceOK {
			t.Errorf("without connector reports %s should be ok, got %s", tr.NodeID, tr.Status)
		}
	}
}
