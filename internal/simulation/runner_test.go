package simulation

import (
	"context"
	"math"
	"reflect"
	"testing"

	"readiness-mcp/internal/workspace"
)

func TestBatchSize(t *testing.T) {
	tests := []struct {
		total, parallel, want int
	}{
		{1000, 4, 100},
		{100, 4, 25},
		{10, 4, 3},
		{1, 4, 1},
		{10000, 1, 100},
		{50, 0, 50},
	}
	for _, tt := range tests {
		if got := BatchSize(tt.total, tt.parallel); got != tt.want {
			t.Errorf("BatchSize(%d, %d) = %d, want %d", tt.total, tt.parallel, got, tt.want)
		}
	}
}

func TestBatchRunner_IndependentOfParallelism(t *testing.T) {
	ws := testWorkspace(workspace.RiskMedium, "linkedin", "x")
	base := DefaultConfig()
	base.Iterations = 730
	base.EnableEarlyTermination = false

	var reference []Sample
	for _, par := range []int{1, 3, 4, 16} {
		cfg := base
		cfg.ParallelBatches = par
		r := &batchRunner{cfg: cfg, ws: ws, nodeCount: 4}
		out, done, err := r.run(context.Background())
		if err != nil {
			t.Fatalf("parallel=%d: %v", par, err)
		}
		if done != cfg.Iterations || len(out.samples) != cfg.Iterations {
			t.Fatalf("parallel=%d: completed %d, samples %d", par, done, len(out.samples))
		}
		if reference == nil {
			reference = out.samples
			continue
		}
		if !reflect.DeepEqual(reference, out.samples) {
			t.Errorf("parallel=%d produced different samples than parallel=1", par)
		}
	}
}

func TestBatchRunner_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &batchRunner{cfg: DefaultConfig(), ws: testWorkspace(workspace.RiskLow, "linkedin"), nodeCount: 1}
	_, done, err := r.run(ctx)
	if err == nil {
		t.Fatal("expected a context error")
	}
	if done != 0 {
		t.Errorf("no batch should complete on a cancelled context, got %d", done)
	}
}

func TestBatchRunner_EverySampleInBounds(t *testing.T) {
	ws := testWorkspace(workspace.RiskHigh, "linkedin", "x", "instagram", "tiktok")
	cfg := DefaultConfig()
	cfg.Iterations = 5000
	cfg.Seed = 7
	cfg.EnableEarlyTermination = false

	r := &batchRunner{cfg: cfg, ws: ws, nodeCount: 10}
	out, _, err := r.run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.samples) != cfg.Iterations {
		t.Fatalf("expected %d samples, got %d", cfg.Iterations, len(out.samples))
	}

	minCost := 0.7 * ws.Budget.Breakdown.Total()
	for i, s := range out.samples {
		checks := []struct {
			name   string
			v      float64
			lo, hi float64
		}{
			{"readiness", s.ReadinessScore, 0, 1},
			{"policy", s.PolicyPass, 0.5, 1},
			{"citation", s.CitationCoverage, 0.7, 1},
			{"duplication", s.DuplicationRisk, 0, 0.4},
			{"cost", s.CostEstimate, minCost, math.Inf(1)},
			{"technical", s.TechnicalReadiness, 0.6, 1},
		}
		for _, c := range checks {
			if math.IsNaN(c.v) || c.v < c.lo || c.v > c.hi {
				t.Fatalf("iteration %d: %s = %v outside [%v,%v]", i, c.name, c.v, c.lo, c.hi)
			}
		}
	}
}
