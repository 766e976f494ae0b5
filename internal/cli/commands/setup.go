package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/config"
	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	"github.com/SDen99/DatasetViewer-sub000/internal/engine"
	"github.com/SDen99/DatasetViewer-sub000/internal/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds how many files are parsed at once.
const maxConcurrentLoads = 4

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	return newCommandContext(cmd, getConfig())
}

func newCommandContext(cmd *cobra.Command, cfg *config.Config) (*CommandContext, func(), error) {
	logger := config.GetLogger(cmd.Context())

	eng, err := engine.New(engine.Config{
		Project: cfg.Project(),
		Metrics: metrics.New(),
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	cleanup := func() {
		if cfg.MetricsFile != "" {
			if err := eng.Metrics().WriteToTextfile(cfg.MetricsFile); err != nil {
				logger.Warn("failed to write metrics file", "path", cfg.MetricsFile, "error", err)
			}
		}
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't read Define-XML files.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// LoadAll loads files concurrently and returns their sessions in argument
// order. The first failure cancels the remaining loads.
func (c *CommandContext) LoadAll(ctx context.Context, paths []string) ([]*engine.Session, error) {
	sessions := make([]*engine.Session, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		g.Go(func() error {
			s, err := c.Engine.Load(gctx, path)
			if err != nil {
				return err
			}
			sessions[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: defaults with the few settings commands read directly
	cfg := config.DefaultConfig()
	cfg.OutputFormat = getEnvOrDefault("DEFINEVIEW_OUTPUT", cfg.OutputFormat)
	cfg.MetricsFile = os.Getenv("DEFINEVIEW_METRICS_FILE")
	cfg.Verbose = os.Getenv("DEFINEVIEW_VERBOSE") == "true"
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// withDerivationMode returns a copy of cfg using mode for placeholder cells.
func withDerivationMode(cfg *config.Config, mode string) *config.Config {
	c := *cfg
	vlmCfg := config.VLMConfig{}
	if cfg.VLM != nil {
		vlmCfg = *cfg.VLM
	}
	vlmCfg.DerivationMode = mode
	c.VLM = &vlmCfg
	return &c
}
