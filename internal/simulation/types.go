package simulation

import (
	"fmt"
	"time"

	"readiness-mcp/internal/stats"
)

const (
	MinIterations     = 1
	MaxIterations     = 10000
	MinTimeoutSeconds = 10
	MaxTimeoutSeconds = 600
)

// Config holds the knobs of one simulation run. It is not modified while the run is active.
type Config struct {
	Iterations             int     `json:"iterations"`
	Seed                   int64   `json:"randomSeed"`
	TimeoutSeconds         int     `json:"timeoutSeconds"`
	ConvergenceThreshold   float64 `json:"convergenceThreshold"`
	ConfidenceLevel        float64 `json:"confidenceLevel"`
	EnableEarlyTermination bool    `json:"enableEarlyTermination"`
	ParallelBatches        int     `json:"parallelBatches"`
}

// DefaultConfig mirrors the request defaults: 1000 iterations, seed 42, 120s.
func DefaultConfig() Config {
	return Config{
		Iterations:             1000,
		Seed:                   42,
		TimeoutSeconds:         120,
		ConvergenceThreshold:   0.001,
		ConfidenceLevel:        0.95,
		EnableEarlyTermination: true,
		ParallelBatches:        4,
	}
}

// Validate rejects out-of-range settings before any random draw is taken.
func (c Config) Validate() error {
	if c.Iterations < MinIterations || c.Iterations > MaxIterations {
		return &ValidationError{Field: "iterations", Message: fmt.Sprintf("iterations must be between %d and %d, got %d", MinIterations, MaxIterations, c.Iterations)}
	}
	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		return &ValidationError{Field: "timeoutSeconds", Message: fmt.Sprintf("timeoutSeconds must be between %d and %d, got %d", MinTimeoutSeconds, MaxTimeoutSeconds, c.TimeoutSeconds)}
	}
	if c.ConvergenceThreshold < 0 {
		return &ValidationError{Field: "convergenceThreshold", Message: "convergenceThreshold must not be negative"}
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		return &ValidationError{Field: "confidenceLevel", Message: fmt.Sprintf("confidenceLevel must be in (0,1), got %v", c.ConfidenceLevel)}
	}
	if c.ParallelBatches < 1 {
		return &ValidationError{Field: "parallelBatches", Message: "parallelBatches must be at least 1"}
	}
	return nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Noise holds the pre-drawn variance terms of the factor simulators, each in [-1,1).
type Noise struct {
	Policy      float64 `json:"policy"`
	Citation    float64 `json:"citation"`
	Duplication float64 `json:"duplication"`
	Cost        float64 `json:"cost"`
	Technical   float64 `json:"technical"`
}

// Parameters is the stochastic state of a single iteration.
type Parameters struct {
	MarketVolatility   float64 `json:"marketVolatility"`
	CompetitorActivity float64 `json:"competitorActivity"`
	SeasonalFactor     float64 `json:"seasonalFactor"`

	// Channels fixes the iteration order of the per-platform maps.
	Channels         []string           `json:"channels"`
	PlatformHealth   map[string]float64 `json:"platformHealth"`
	RateLimits       map[string]float64 `json:"rateLimits"`
	AlgorithmChanges map[string]float64 `json:"algorithmChanges"`

	ContentQuality        float64 `json:"contentQuality"`
	AudienceReceptiveness float64 `json:"audienceReceptiveness"`
	TimingOptimization    float64 `json:"timingOptimization"`

	APILatencyMs       float64 `json:"apiLatencyMs"`
	SystemLoad         float64 `json:"systemLoad"`
	NetworkReliability float64 `json:"networkReliability"`

	Noise Noise `json:"noise"`
}

// AvgPlatformHealth averages platform health in channel order; no channels means 1.0.
func (p Parameters) AvgPlatformHealth() float64 {
	if len(p.Channels) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, ch := range p.Channels {
		sum += p.PlatformHealth[ch]
	}
	return sum / float64(len(p.Channels))
}

// Sample is the output of one Monte-Carlo iteration.
type Sample struct {
	ReadinessScore     float64 `json:"readinessScore"`
	PolicyPass         float64 `json:"policyPass"`
	CitationCoverage   float64 `json:"citationCoverage"`
	DuplicationRisk    float64 `json:"duplicationRisk"`
	CostEstimate       float64 `json:"costEstimate"`
	TechnicalReadiness float64 `json:"technicalReadiness"`
}

// Convergence describes whether the running mean stabilised.
type Convergence struct {
	Converged          bool    `json:"converged"`
	RequiredIterations int     `json:"requiredIterations"`
	StabilityThreshold float64 `json:"stabilityThreshold"`
	EarlyTerminated    bool    `json:"earlyTerminated"`
}

// Results is the aggregate output of a run (MonteCarloResults).
type Results struct {
	ReadinessScore     stats.MetricSummary `json:"readinessScore"`
	PolicyPass         stats.MetricSummary `json:"policyPassPct"`
	CitationCoverage   stats.MetricSummary `json:"citationCoverage"`
	DuplicationRisk    stats.MetricSummary `json:"duplicationRisk"`
	CostEstimate       stats.MetricSummary `json:"costEstimate"`
	TechnicalReadiness stats.MetricSummary `json:"technicalReadiness"`
	Convergence        Convergence         `json:"convergenceMetrics"`
	Iterations         int                 `json:"iterations"`
}
