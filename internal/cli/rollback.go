package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRollbackCmd creates the 'rollback' command.
//
// Rollback restores the model to an earlier persisted version, for when
// live learning has drifted somewhere bad.
func NewRollbackCmd() *cobra.Command {
	var configPath string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "rollback <version>",
		Short: "Restore the model to an earlier persisted version",
		Args:  cobra.ExactArgs(1),
		Example: `  # Restore model version 42
  intent-hub-mcp rollback 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return runRollback(configPath, dbPath, version)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the model database")

	return cmd
}

func runRollback(configPath, dbPath string, version int64) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rt, err := buildRuntime(cfg, dbPath, zap.NewNop())
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		rt.learner.Shutdown(ctx)
	}()

	if err := rt.learner.Rollback(version); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	fmt.Printf("✅ Model restored to version %d\n", version)
	return nil
}
