package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"readiness-mcp/internal/history"
	"readiness-mcp/internal/simulation"
	"readiness-mcp/internal/workflow"
	"readiness-mcp/internal/workspace"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Options configures a Service. Zero fields take sensible defaults.
type Options struct {
	Defaults simulation.Config
	Version  string
	History  *history.Store
}

// Service resolves a request into a workspace and workflow, runs the engine
// and assembles the response. It is safe for concurrent use.
type Service struct {
	provider workspace.Provider
	defaults simulation.Config
	version  string
	history  *history.Store

	now   func() time.Time
	newID func() string
}

func New(provider workspace.Provider, opts Options) *Service {
	defaults := opts.Defaults
	if defaults == (simulation.Config{}) {
		defaults = simulation.DefaultConfig()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Service{
		provider: provider,
		defaults: defaults,
		version:  version,
		history:  opts.History,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Defaults returns the configuration applied to fields a request leaves unset.
func (s *Service) Defaults() simulation.Config {
	return s.defaults
}

// Config merges the request overrides into the defaults and validates the result.
func (s *Service) Config(req Request) (simulation.Config, error) {
	cfg := s.defaults
	if req.Iterations != nil {
		cfg.Iterations = *req.Iterations
	}
	if req.RandomSeed != nil {
		cfg.Seed = *req.RandomSeed
	}
	if req.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *req.TimeoutSeconds
	}
	if err := cfg.Validate(); err != nil {
		return simulation.Config{}, err
	}
	return cfg, nil
}

// Run executes one readiness simulation. Every returned error carries a
// simulation.Code, except a cancellation of ctx by the caller.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.WorkspaceID) == "" {
		return nil, &simulation.ValidationError{Field: "workspaceId", Message: "workspaceId is required"}
	}
	if !workspace.ValidID(req.WorkspaceID) {
		return nil, &simulation.ValidationError{Field: "workspaceId", Message: fmt.Sprintf("workspaceId %q contains unsupported characters", req.WorkspaceID)}
	}
	cfg, err := s.Config(req)
	if err != nil {
		return nil, err
	}
	nodes, err := workflow.Parse(req.WorkflowJSON)
	if err != nil {
		return nil, &simulation.ValidationError{Field: "workflowJson", Message: err.Error()}
	}

	ws, err := s.lookup(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if err := ws.Validate(); err != nil {
		return nil, &simulation.ValidationError{Field: "workspace", Message: err.Error()}
	}
	if len(req.TargetChannels) > 0 {
		narrowed := ws.WithChannels(req.TargetChannels)
		if len(narrowed.PrimaryChannels) == 0 {
			return nil, &simulation.ValidationError{Field: "targetChannels", Message: "targetChannels must name at least one channel"}
		}
		ws = &narrowed
	}

	started := s.now()
	log.Info().
		Str("workspace", ws.ID).
		Int("iterations", cfg.Iterations).
		Int64("seed", cfg.Seed).
		Int("nodes", len(nodes)).
		Strs("channels", ws.PrimaryChannels).
		Msg("Starting readiness simulation")

	results, err := simulation.NewEngine(ws, nodes).Run(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("workspace", ws.ID).Str("code", string(simulation.CodeOf(err))).Msg("Readiness simulation failed")
		return nil, err
	}
	completed := s.now()

	traces := simulation.GenerateTraces(cfg.Seed, ws, nodes)
	resp := &Response{
		SimulationID:       s.newID(),
		WorkspaceID:        ws.ID,
		Channels:           ws.PrimaryChannels,
		ReadinessScore:     results.ReadinessScore.Mean,
		PolicyPassPct:      results.PolicyPass.Mean,
		CitationCoverage:   results.CitationCoverage.Mean,
		DuplicationRisk:    results.DuplicationRisk.Mean,
		CostEstimateUSD:    results.CostEstimate.Mean,
		BudgetHardCapUSD:   ws.Budget.HardCap,
		TechnicalReadiness: results.TechnicalReadiness.Mean,
		Traces:             traces,
		Confidence:         results.ReadinessScore.Confidence,
		Metadata: Metadata{
			Iterations:  results.Iterations,
			RandomSeed:  cfg.Seed,
			StartedAt:   started,
			CompletedAt: completed,
			DurationMs:  completed.Sub(started).Milliseconds(),
			Version:     s.version,
		},
		Approval:   EvaluatePolicy(ws.ApprovalPolicy, results, traces),
		Statistics: results,
		nodes:      nodes,
	}

	s.record(resp)
	return resp, nil
}

func (s *Service) lookup(ctx context.Context, id string) (*workspace.Context, error) {
	ws, err := s.provider.Get(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, err
		}
		return nil, &simulation.WorkspaceUnavailableError{
			WorkspaceID: id,
			NotFound:    errors.Is(err, workspace.ErrNotFound),
			Forbidden:   errors.Is(err, workspace.ErrUnauthorized),
			Err:         err,
		}
	}
	return ws, nil
}

// record appends the run to the history store. History is best effort; a
// failed write never fails the simulation.
func (s *Service) record(resp *Response) {
	if s.history == nil {
		return
	}
	failed := 0
	for _, t := range resp.Traces {
		if t.Status == simulation.TraceError {
			failed++
		}
	}
	run := history.Run{
		SimulationID:       resp.SimulationID,
		WorkspaceID:        resp.WorkspaceID,
		StartedAt:          resp.Metadata.StartedAt,
		CompletedAt:        resp.Metadata.CompletedAt,
		DurationMs:         resp.Metadata.DurationMs,
		Iterations:         resp.Metadata.Iterations,
		RandomSeed:         resp.Metadata.RandomSeed,
		Channels:           resp.Channels,
		ReadinessScore:     resp.ReadinessScore,
		PolicyPassPct:      resp.PolicyPassPct,
		CitationCoverage:   resp.CitationCoverage,
		DuplicationRisk:    resp.DuplicationRisk,
		CostEstimateUSD:    resp.CostEstimateUSD,
		TechnicalReadiness: resp.TechnicalReadiness,
		Converged:          resp.Statistics.Convergence.Converged,
		Approved:           resp.Approval.Approved,
		FailedNodes:        failed,
		Version:            resp.Metadata.Version,
	}
	if err := s.history.Record(run); err != nil {
		log.Warn().Err(err).Str("workspace", run.WorkspaceID).Str("simulation", run.SimulationID).Msg("Failed to persist run history")
	}
}

// History lists the most recent runs of a workspace, newest first.
func (s *Service) History(workspaceID string, limit int) ([]history.Run, error) {
	if !workspace.ValidID(workspaceID) {
		return nil, &simulation.ValidationError{Field: "workspaceId", Message: fmt.Sprintf("invalid workspaceId %q", workspaceID)}
	}
	if s.history == nil {
		return []history.Run{}, nil
	}
	return s.history.Recent(workspaceID, limit)
}
