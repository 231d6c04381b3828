package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/intent-hub-mcp/internal/samples"
)

// NewBootstrapCmd creates the 'bootstrap' command.
//
// Bootstrap trains the model from labeled samples so the first live
// predictions are better than uniform guessing. Without a --samples file
// it uses the built-in bilingual seed corpus.
func NewBootstrapCmd() *cobra.Command {
	var configPath string
	var dbPath string
	var samplesPath string
	var epochs int

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Train the model from labeled samples",
		Example: `  # Train on the built-in seed corpus
  intent-hub-mcp bootstrap

  # Train on collected samples for 5 epochs
  intent-hub-mcp bootstrap --samples collected.json --epochs 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(configPath, dbPath, samplesPath, epochs)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the model database")
	cmd.Flags().StringVar(&samplesPath, "samples", "", "JSON file of labeled samples (default: built-in seed corpus)")
	cmd.Flags().IntVar(&epochs, "epochs", 3, "number of passes over the sample set")

	return cmd
}

func runBootstrap(configPath, dbPath, samplesPath string, epochs int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	set := samples.Seed()
	if samplesPath != "" {
		set, err = samples.LoadFile(samplesPath)
		if err != nil {
			return fmt.Errorf("failed to load samples: %w", err)
		}
	}

	logger, err := newLogger(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rt, err := buildRuntime(cfg, dbPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		rt.learner.Shutdown(ctx)
	}()

	if err := rt.learner.Bootstrap(set, epochs); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	status := rt.learner.Status()
	fmt.Printf("✅ Trained on %d samples over %d epochs (model version %d)\n",
		len(set), epochs, status.CurrentVersion)
	return nil
}
