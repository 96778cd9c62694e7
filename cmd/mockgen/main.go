package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"readiness-mcp/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "typical", "Scenario to generate: calm, typical, stressed")
	outDir := flag.String("out", "./.data", "Output directory for fixture files")
	count := flag.Int("count", 3, "Number of workspaces to generate")
	nodes := flag.Int("nodes", 5, "Number of workflow nodes per workspace")
	seed := flag.Int64("seed", 42, "Generator seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:   *scenario,
		Workspaces: *count,
		Nodes:      *nodes,
		Seed:       *seed,
		Now:        time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Workspaces: %d, Nodes: %d, Seed: %d) to %s...\n", cfg.Scenario, cfg.Workspaces, cfg.Nodes, cfg.Seed, *outDir)

	fixtures, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate fixtures: %v\n", err)
		os.Exit(1)
	}
	if err := engine.Save(*outDir, fixtures); err != nil {
		fmt.Printf("Failed to save fixtures: %v\n", err)
		os.Exit(1)
	}

	for _, f := range fixtures {
		fmt.Printf("  %s  risk=%s channels=%v nodes=%d\n", f.Workspace.ID, f.Workspace.RiskProfile, f.Workspace.PrimaryChannels, len(f.Workflow))
	}
	fmt.Println("Done.")
}
