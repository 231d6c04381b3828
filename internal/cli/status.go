package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStatusCmd creates the 'status' command.
func NewStatusCmd() *cobra.Command {
	var configPath string
	var dbPath string
	var recent int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show model version, sample count, and recent outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(configPath, dbPath, recent)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the model database")
	cmd.Flags().IntVar(&recent, "recent", 5, "number of recent outcomes to show")

	return cmd
}

func runStatus(configPath, dbPath string, recent int) error {
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

	status := rt.learner.Status()
	fmt.Printf("Model version:    %d\n", status.CurrentVersion)
	fmt.Printf("Samples absorbed: %d\n", status.SampleCount)
	fmt.Printf("Intents:          %d\n", len(cfg.Intents))

	records, err := rt.store.RecentOutcomes(recent)
	if err != nil {
		return fmt.Errorf("failed to load recent outcomes: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("\nNo recorded outcomes yet. Run 'intent-hub-mcp bootstrap' to seed the model.")
		return nil
	}

	fmt.Printf("\nRecent outcomes (%d):\n", len(records))
	for _, r := range records {
		marker := "✗"
		if r.TaskSuccess {
			marker = "✓"
		}
		fmt.Printf("  %s %-12s reward=%+.2f decision=%-16s %s\n",
			marker, r.PredictedIntent, r.RewardTotal, r.Decision,
			r.Timestamp.Format(time.RFC3339))
	}

	return nil
}
