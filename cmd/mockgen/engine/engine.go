package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"readiness-mcp/internal/simulation"
	"readiness-mcp/internal/workflow"
	"readiness-mcp/internal/workspace"
)

type GeneratorConfig struct {
	Scenario   string // "calm", "typical" or "stressed"
	Workspaces int
	Nodes      int
	Seed       int64
	Now        time.Time
}

// Fixture is one generated workspace and the workflow meant to run against it.
type Fixture struct {
	Workspace workspace.Context
	Workflow  []workflow.Node
}

var (
	channelPool = []string{"linkedin", "x", "instagram", "facebook", "threads", "youtube"}
	nodeTypes   = []string{"research", "generate", "policy_check", "citation_check", "dedupe", "schedule"}
)

type scenarioProfile struct {
	risks          []workspace.RiskProfile
	maxFailureRate float64
	budgetSlack    float64 // hard cap as a multiple of planned spend
	degradedProb   float64
	downProb       float64
}

var scenarios = map[string]scenarioProfile{
	"calm":     {[]workspace.RiskProfile{workspace.RiskLow, workspace.RiskEnterprise}, 0.02, 1.8, 0.0, 0.0},
	"typical":  {[]workspace.RiskProfile{workspace.RiskLow, workspace.RiskMedium, workspace.RiskHigh}, 0.08, 1.4, 0.15, 0.03},
	"stressed": {[]workspace.RiskProfile{workspace.RiskHigh, workspace.RiskMedium}, 0.25, 1.05, 0.35, 0.15},
}

// Generate produces cfg.Workspaces fixtures. The same config always yields the same fixtures.
func Generate(cfg GeneratorConfig) ([]Fixture, error) {
	profile, ok := scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (calm, typical, stressed)", cfg.Scenario)
	}
	if cfg.Workspaces <= 0 {
		cfg.Workspaces = 1
	}
	if cfg.Nodes <= 0 {
		cfg.Nodes = 4
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(simulation.NewRNG(cfg.Seed))

	fixtures := make([]Fixture, 0, cfg.Workspaces)
	for i := 0; i < cfg.Workspaces; i++ {
		id := fmt.Sprintf("mock-%s-%02d", cfg.Scenario, i+1)
		fixtures = append(fixtures, Fixture{
			Workspace: generateWorkspace(rng, profile, id, cfg.Now),
			Workflow:  generateWorkflow(rng, profile, cfg.Nodes),
		})
	}
	return fixtures, nil
}

func generateWorkspace(rng *rand.Rand, profile scenarioProfile, id string, now time.Time) workspace.Context {
	perm := rng.Perm(len(channelPool))
	channels := make([]string, 1+rng.Intn(3))
	for i := range channels {
		channels[i] = channelPool[perm[i]]
	}

	breakdown := workspace.BudgetBreakdown{
		PaidMedia:         roundTo(500+rng.Float64()*2500, 50),
		ContentProduction: roundTo(300+rng.Float64()*1200, 50),
		Tooling:           roundTo(100+rng.Float64()*400, 50),
		Contingency:       roundTo(100+rng.Float64()*300, 50),
	}
	planned := breakdown.Total()

	connectors := make([]workspace.ConnectorHealth, 0, len(channels))
	for _, ch := range channels {
		status := workspace.ConnectorHealthy
		switch u := rng.Float64(); {
		case u < profile.downProb:
			status = workspace.ConnectorDown
		case u < profile.downProb+profile.degradedProb:
			status = workspace.ConnectorDegraded
		}
		connectors = append(connectors, workspace.ConnectorHealth{
			Channel:   ch,
			Status:    status,
			CheckedAt: now.Add(-time.Duration(rng.Intn(3600)) * time.Second).UTC().Truncate(time.Second),
		})
	}

	return workspace.Context{
		ID:              id,
		Name:            fmt.Sprintf("Mock campaign %s", id),
		Goals:           []string{"awareness", "lead generation"}[:1+rng.Intn(2)],
		PrimaryChannels: channels,
		Budget: workspace.Budget{
			Currency:  "USD",
			WeeklyCap: roundTo(planned/4, 10),
			HardCap:   roundTo(planned*profile.budgetSlack, 100),
			Breakdown: breakdown,
		},
		ApprovalPolicy: workspace.ApprovalPolicy{
			MinReadinessScore:    0.65,
			MinPolicyPassPct:     0.70,
			MinCitationCoverage:  0.75,
			MaxDuplicationRisk:   0.20,
			MaxCostUSD:           roundTo(planned*profile.budgetSlack, 100),
			RequireHumanApproval: rng.Float64() < 0.3,
		},
		RiskProfile: profile.risks[rng.Intn(len(profile.risks))],
		Connectors:  connectors,
	}
}

// generateWorkflow builds a chain with occasional fan-in, always ending in a publish node.
func generateWorkflow(rng *rand.Rand, profile scenarioProfile, n int) []workflow.Node {
	nodes := make([]workflow.Node, 0, n)
	for i := 0; i < n; i++ {
		typ := nodeTypes[rng.Intn(len(nodeTypes))]
		if i == n-1 {
			typ = "publish"
		}
		node := workflow.Node{
			ID:                fmt.Sprintf("n%d-%s", i+1, typ),
			Type:              typ,
			Dependencies:      []string{},
			EstimatedDuration: roundTo(100+rng.Float64()*1900, 10),
			FailureRate:       roundTo(rng.Float64()*profile.maxFailureRate, 0.001),
		}
		if i > 0 {
			node.Dependencies = append(node.Dependencies, nodes[i-1].ID)
			if i > 1 && rng.Float64() < 0.25 {
				node.Dependencies = append(node.Dependencies, nodes[rng.Intn(i-1)].ID)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func roundTo(v, step float64) float64 {
	return float64(int64(v/step+0.5)) * step
}

// Save writes <out>/workspaces/<id>.json and <out>/workflows/<id>.json per fixture.
func Save(outDir string, fixtures []Fixture) error {
	wsDir := filepath.Join(outDir, "workspaces")
	wfDir := filepath.Join(outDir, "workflows")
	for _, dir := range []string{wsDir, wfDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	for _, f := range fixtures {
		if err := writeJSON(filepath.Join(wsDir, f.Workspace.ID+".json"), f.Workspace); err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(wfDir, f.Workspace.ID+".json"), workflow.Document{Nodes: f.Workflow}); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0644)
}
