package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"readiness-mcp/internal/config"
	"readiness-mcp/internal/history"
	"readiness-mcp/internal/logging"
	"readiness-mcp/internal/mcp"
	"readiness-mcp/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	svc     *service.Service
)

var rootCmd = &cobra.Command{
	Use:   "readiness-mcp",
	Short: "Monte-Carlo campaign readiness simulator, served over MCP",
	Long: `An MCP Server that estimates whether a marketing campaign workflow is ready to publish
by running a seeded Monte-Carlo simulation against the campaign's workspace context.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := logging.Init(logging.Options{Verbose: verbose}); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		var store *history.Store
		if cfg.EnableRunHistory {
			store = history.NewStore(cfg.HistoryDir)
		}
		svc = service.New(cfg.Provider(), service.Options{
			Defaults: cfg.Simulation,
			Version:  Version,
			History:  store,
		})

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("dataPath", cfg.DataPath).
			Msg("readiness-mcp starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(cfg, svc, Version)
		return server.Start(cmd.Context())
	},
}

// Execute runs the root command; SIGINT and SIGTERM cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(simulateCmd, historyCmd)
}
