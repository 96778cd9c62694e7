package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"readiness-mcp/internal/simulation"
	"readiness-mcp/internal/workspace"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// WorkspaceConfig selects and tunes the workspace provider.
// A non-empty URL wins over Dir.
type WorkspaceConfig struct {
	Dir      string
	URL      string
	Token    string
	Timeout  time.Duration
	CacheTTL time.Duration
	Retry    workspace.RetryPolicy
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Workspace           WorkspaceConfig
	Simulation          simulation.Config
	DataPath            string
	LogDir              string
	HistoryDir          string
	EnableRunHistory    bool
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	cfg, err := FromEnv(exeDir)
	if err != nil {
		return nil, err
	}

	// Ensure directories exist
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cfg.LogDir).Msg("Failed to create log directory")
	}
	if cfg.EnableRunHistory {
		if err := os.MkdirAll(cfg.HistoryDir, 0755); err != nil {
			log.Warn().Err(err).Str("path", cfg.HistoryDir).Msg("Failed to create history directory")
		}
	}
	return cfg, nil
}

// FromEnv builds the configuration from the process environment only.
// baseDir is the fallback for DATA_PATH.
func FromEnv(baseDir string) (*AppConfig, error) {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if baseDir != "" {
			dataPath = baseDir
		} else {
			dataPath = "."
		}
	}

	defaults := simulation.DefaultConfig()
	sim := simulation.Config{
		Iterations:             getEnvInt("SIM_DEFAULT_ITERATIONS", defaults.Iterations),
		Seed:                   int64(getEnvInt("SIM_DEFAULT_SEED", int(defaults.Seed))),
		TimeoutSeconds:         getEnvInt("SIM_DEFAULT_TIMEOUT_SECONDS", defaults.TimeoutSeconds),
		ConvergenceThreshold:   getEnvFloat("SIM_CONVERGENCE_THRESHOLD", defaults.ConvergenceThreshold),
		ConfidenceLevel:        getEnvFloat("SIM_CONFIDENCE_LEVEL", defaults.ConfidenceLevel),
		EnableEarlyTermination: getEnvBool("SIM_EARLY_TERMINATION", defaults.EnableEarlyTermination),
		ParallelBatches:        getEnvInt("SIM_PARALLEL_BATCHES", defaults.ParallelBatches),
	}
	if err := sim.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation defaults: %w", err)
	}

	retry := workspace.DefaultRetryPolicy
	retry.MaxTries = uint(max(1, getEnvInt("WORKSPACE_MAX_RETRIES", int(retry.MaxTries))))
	timeout := time.Duration(getEnvInt("WORKSPACE_TIMEOUT_SECONDS", 5)) * time.Second
	retry.AttemptTimeout = timeout

	cfg := &AppConfig{
		Workspace: WorkspaceConfig{
			Dir:      getEnv("WORKSPACE_DIR", filepath.Join(dataPath, "workspaces")),
			URL:      getEnv("WORKSPACE_URL", ""),
			Token:    getEnv("WORKSPACE_TOKEN", ""),
			Timeout:  timeout,
			CacheTTL: time.Duration(getEnvInt("WORKSPACE_CACHE_TTL_SECONDS", 60)) * time.Second,
			Retry:    retry,
		},
		Simulation:          sim,
		DataPath:            dataPath,
		LogDir:              filepath.Join(dataPath, "logs"),
		HistoryDir:          filepath.Join(dataPath, "history"),
		EnableRunHistory:    getEnvBool("ENABLE_RUN_HISTORY", true),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}
	return cfg, nil
}

// Provider builds the workspace provider the configuration asks for,
// wrapped in the retry policy.
func (c *AppConfig) Provider() workspace.Provider {
	var next workspace.Provider
	if c.Workspace.URL != "" {
		next = workspace.NewHTTPProvider(workspace.HTTPConfig{
			BaseURL:  c.Workspace.URL,
			Token:    c.Workspace.Token,
			Timeout:  c.Workspace.Timeout,
			CacheTTL: c.Workspace.CacheTTL,
		})
		log.Debug().Str("url", c.Workspace.URL).Msg("Using HTTP workspace provider")
	} else {
		next = workspace.NewFileProvider(c.Workspace.Dir)
		log.Debug().Str("dir", c.Workspace.Dir).Msg("Using file workspace provider")
	}
	return workspace.NewRetrying(next, c.Workspace.Retry)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-boolean environment value")
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return fallback
}
