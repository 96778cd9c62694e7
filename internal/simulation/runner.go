package simulation

import (
	"context"

	"readiness-mcp/internal/workspace"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxBatchSize bounds how many samples are computed between convergence checks.
const maxBatchSize = 100

// BatchSize returns min(100, ceil(total/parallelBatches)).
func BatchSize(total, parallelBatches int) int {
	if parallelBatches < 1 {
		parallelBatches = 1
	}
	size := (total + parallelBatches - 1) / parallelBatches
	if size > maxBatchSize {
		size = maxBatchSize
	}
	if size < 1 {
		size = 1
	}
	return size
}

// runOutput is what the batch runner hands to the analyzer.
type runOutput struct {
	samples         []Sample
	converged       bool
	earlyTerminated bool
	batches         int
}

// batchRunner drives iterations batch by batch. Iteration i always draws from
// RNG stream i, so neither the batch size nor the number of workers changes
// any sample.
type batchRunner struct {
	cfg       Config
	ws        *workspace.Context
	nodeCount int
}

func simulateIteration(ws *workspace.Context, nodeCount int, seed int64, i int) (Sample, error) {
	rng := NewStream(seed, uint64(i))
	p := GenerateParameters(rng, ws, i)

	f := Factors{
		PolicyPass:         PolicyPassRate(ws, p),
		CitationCoverage:   CitationCoverage(ws, p),
		DuplicationRisk:    DuplicationRisk(ws, p),
		CostEstimate:       CostEstimate(ws, p),
		TechnicalReadiness: TechnicalReadiness(ws, p, nodeCount),
	}
	score, err := ReadinessScore(f, ws.Budget.HardCap)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		ReadinessScore:     score,
		PolicyPass:         f.PolicyPass,
		CitationCoverage:   f.CitationCoverage,
		DuplicationRisk:    f.DuplicationRisk,
		CostEstimate:       f.CostEstimate,
		TechnicalReadiness: f.TechnicalReadiness,
	}, nil
}

// run executes the batches. On cancellation it returns the context error and
// the number of samples completed so far; the samples themselves are dropped.
func (r *batchRunner) run(ctx context.Context) (runOutput, int, error) {
	total := r.cfg.Iterations
	size := BatchSize(total, r.cfg.ParallelBatches)
	samples := make([]Sample, total)
	scores := make([]float64, 0, total)

	out := runOutput{}
	done := 0
	for start := 0; start < total; start += size {
		if err := ctx.Err(); err != nil {
			return runOutput{}, done, err
		}
		end := min(start+size, total)

		if err := r.runBatch(ctx, samples, start, end); err != nil {
			return runOutput{}, done, err
		}
		for i := start; i < end; i++ {
			scores = append(scores, samples[i].ReadinessScore)
		}
		done = end
		out.batches++

		if r.cfg.EnableEarlyTermination && done >= MinConvergenceSamples && done < total &&
			IsConverged(scores, ConvergenceWindow, r.cfg.ConvergenceThreshold) {
			log.Debug().Int("iterations", done).Int("requested", total).Msg("Readiness score converged, terminating early")
			out.converged = true
			out.earlyTerminated = true
			break
		}
	}

	if !out.converged {
		out.converged = IsConverged(scores, ConvergenceWindow, r.cfg.ConvergenceThreshold)
	}
	out.samples = samples[:done]
	return out, done, nil
}

// runBatch fans the iterations [start,end) out over ParallelBatches workers.
// Each worker owns a contiguous slice of slots, so writes never overlap.
func (r *batchRunner) runBatch(ctx context.Context, samples []Sample, start, end int) error {
	workers := min(r.cfg.ParallelBatches, end-start)
	if workers <= 1 {
		for i := start; i < end; i++ {
			s, err := simulateIteration(r.ws, r.nodeCount, r.cfg.Seed, i)
			if err != nil {
				return err
			}
			samples[i] = s
		}
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (end - start + workers - 1) / workers
	for lo := start; lo < end; lo += chunk {
		hi := min(lo+chunk, end)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				s, err := simulateIteration(r.ws, r.nodeCount, r.cfg.Seed, i)
				if err != nil {
					return err
				}
				samples[i] = s
			}
			return nil
		})
	}
	return g.Wait()
}
