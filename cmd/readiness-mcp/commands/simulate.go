package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"readiness-mcp/internal/service"
	"readiness-mcp/internal/visuals"
	"readiness-mcp/internal/workflow"
	"readiness-mcp/internal/workspace"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var simulateOpts struct {
	workspaceID   string
	workspaceFile string
	workflowFile  string
	iterations    int
	seed          int64
	timeout       int
	channels      []string
	report        string
	open          bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one readiness simulation and print the result as JSON",
	Example: `  readiness-mcp simulate --workspace-id acme --workflow ./workflows/acme.json
  readiness-mcp simulate --workspace-file ./ws.json --workflow ./wf.json --seed 7 --report report.html --open`,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simulateOpts.workspaceID, "workspace-id", "", "workspace to load from the configured provider")
	f.StringVar(&simulateOpts.workspaceFile, "workspace-file", "", "load the workspace from this JSON file instead of the provider")
	f.StringVar(&simulateOpts.workflowFile, "workflow", "", "workflow definition JSON file (required)")
	f.IntVar(&simulateOpts.iterations, "iterations", 0, "iterations (default from SIM_DEFAULT_ITERATIONS)")
	f.Int64Var(&simulateOpts.seed, "seed", 0, "random seed (default from SIM_DEFAULT_SEED)")
	f.IntVar(&simulateOpts.timeout, "timeout", 0, "timeout in seconds (default from SIM_DEFAULT_TIMEOUT_SECONDS)")
	f.StringSliceVar(&simulateOpts.channels, "channels", nil, "override the workspace's primary channels")
	f.StringVar(&simulateOpts.report, "report", "", "also write a report; .html renders charts, anything else is Markdown")
	f.BoolVar(&simulateOpts.open, "open", false, "open the HTML report in the browser")
	_ = simulateCmd.MarkFlagRequired("workflow")
	simulateCmd.MarkFlagsOneRequired("workspace-id", "workspace-file")
	simulateCmd.MarkFlagsMutuallyExclusive("workspace-id", "workspace-file")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(simulateOpts.workflowFile)
	if err != nil {
		return fmt.Errorf("failed to read workflow: %w", err)
	}

	runner := svc
	req := service.Request{
		WorkspaceID:    simulateOpts.workspaceID,
		WorkflowJSON:   raw,
		TargetChannels: simulateOpts.channels,
	}
	if simulateOpts.workspaceFile != "" {
		ws, err := loadWorkspaceFile(simulateOpts.workspaceFile)
		if err != nil {
			return err
		}
		req.WorkspaceID = ws.ID
		runner = service.New(staticProvider{ws}, service.Options{Defaults: cfg.Simulation, Version: Version})
	}
	if cmd.Flags().Changed("iterations") {
		req.Iterations = &simulateOpts.iterations
	}
	if cmd.Flags().Changed("seed") {
		req.RandomSeed = &simulateOpts.seed
	}
	if cmd.Flags().Changed("timeout") {
		req.TimeoutSeconds = &simulateOpts.timeout
	}

	resp, err := runner.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}

	if simulateOpts.report == "" {
		return nil
	}
	return writeReport(simulateOpts.report, resp, resp.Nodes(), simulateOpts.open)
}

func writeReport(path string, resp *service.Response, nodes []workflow.Node, open bool) error {
	var data []byte
	if filepath.Ext(path) == ".html" {
		page, err := visuals.RenderHTML(resp, nodes)
		if err != nil {
			return err
		}
		data = page
	} else {
		data = []byte(visuals.RenderMarkdown(resp, nodes))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("path", path).Msg("Report written")

	if open {
		if err := browser.OpenFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Could not open report in browser")
		}
	}
	return nil
}

func loadWorkspaceFile(path string) (*workspace.Context, error) {
	dir, name := filepath.Split(path)
	id := name[:len(name)-len(filepath.Ext(name))]
	if dir == "" {
		dir = "."
	}
	return workspace.NewFileProvider(dir).Get(context.Background(), id)
}

// staticProvider serves a single workspace loaded up front.
type staticProvider struct {
	ws *workspace.Context
}

func (p staticProvider) Get(_ context.Context, id string) (*workspace.Context, error) {
	if p.ws.ID != id {
		return nil, fmt.Errorf("%w: %s", workspace.ErrNotFound, id)
	}
	return p.ws, nil
}
