package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readiness-mcp/internal/workflow"
	"readiness-mcp/internal/workspace"

	"github.com/rs/zerolog/log"
)

// Engine performs the Monte-Carlo readiness simulation for one workspace and workflow.
// An Engine holds no mutable state; concurrent runs do not share anything.
type Engine struct {
	workspace *workspace.Context
	nodes     []workflow.Node
}

func NewEngine(ws *workspace.Context, nodes []workflow.Node) *Engine {
	return &Engine{workspace: ws, nodes: nodes}
}

// Run validates cfg, executes the batches under cfg's timeout and aggregates
// the samples. Errors are always one of the CodedError types or the caller's
// own context cancellation.
func (e *Engine) Run(ctx context.Context, cfg Config) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := e.workspace.Validate(); err != nil {
		return nil, &ValidationError{Field: "workspace", Message: err.Error()}
	}
	if hardCap := e.workspace.Budget.HardCap; hardCap <= 0 {
		return nil, &ComputationError{Message: fmt.Sprintf("workspace %s has budget hard cap %v; cost risk is undefined", e.workspace.ID, hardCap)}
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	started := time.Now()
	runner := &batchRunner{cfg: cfg, ws: e.workspace, nodeCount: len(e.nodes)}
	out, completed, err := runner.run(runCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Str("workspace", e.workspace.ID).Int("completed", completed).Int("requested", cfg.Iterations).Dur("timeout", cfg.Timeout()).Msg("Simulation timed out, discarding partial results")
			return nil, &SimulationTimeoutError{Timeout: cfg.Timeout(), Completed: completed, Requested: cfg.Iterations}
		}
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("simulation canceled: %w", err)
		}
		return nil, err
	}

	results, err := Analyze(out, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("workspace", e.workspace.ID).
		Int("iterations", results.Iterations).
		Int("batches", out.batches).
		Bool("converged", results.Convergence.Converged).
		Float64("readiness", results.ReadinessScore.Mean).
		Dur("elapsed", time.Since(started)).
		Msg("Simulation finished")
	return results, nil
}
