package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
	"github.com/khanglvm/intent-hub-mcp/internal/mcp"
)

// shutdownTimeout bounds the graceful-shutdown window before the process
// exits anyway.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the 'serve' command for running the MCP server.
//
// This is the main command that exposes the 4 intent tools via stdio
// transport: intent_predict, intent_complete, intent_status, intent_samples.
func NewServeCmd() *cobra.Command {
	var configPath string
	var dbPath string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the intent-hub-mcp server using stdio transport.

This server exposes 4 tools to AI clients:
  • intent_predict  - Classify a request and propose a tool sequence
  • intent_complete - Report the outcome so the model learns from it
  • intent_status   - Inspect model version and rolling accuracy
  • intent_samples  - Search the training-sample corpus

Routing thresholds and reward weights reload when the config file
changes; no restart needed.`,
		Example: `  # Run directly
  intent-hub-mcp serve

  # Add to Claude Code
  claude mcp add intent-hub -- intent-hub-mcp serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, dbPath, debug)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the config file (default ~/.intent-hub-mcp.json)")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the model database (default ~/.intent-hub-mcp/models.db)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

// runServe starts the MCP server with stdio transport and signal handling.
// Implements graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
func runServe(configPath, dbPath string, debug bool) error {
	logger, err := newLogger(debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rt, err := buildRuntime(cfg, dbPath, logger)
	if err != nil {
		return err
	}

	idx, err := buildIndexer()
	if err != nil {
		logger.Warn("sample index unavailable", zap.Error(err))
	} else {
		defer idx.Close()
	}

	// Hot reload: threshold and weight changes apply without a restart.
	watchPath := configPath
	if watchPath == "" {
		watchPath, err = config.GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}
	watcher, err := config.Watch(watchPath, logger, func(next *config.Config) {
		rt.learner.ApplyConfig(next)
	})
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
	} else {
		defer watcher.Stop()
	}

	server := mcp.NewServer(rt.learner, idx, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	logger.Info("intent hub serving on stdio")

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		return shutdown(rt, logger)

	case err := <-errChan:
		// Run returned: stdin closed or a transport error.
		if shutdownErr := shutdown(rt, logger); shutdownErr != nil {
			logger.Warn("shutdown error", zap.Error(shutdownErr))
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// shutdown flushes the learner within the shutdown window.
func shutdown(rt *runtime, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := rt.learner.Shutdown(ctx); err != nil {
		return fmt.Errorf("learner shutdown failed: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
