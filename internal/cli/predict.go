package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewPredictCmd creates the 'predict' command for one-shot classification.
//
// The interaction is not kept pending: this is an inspection tool, the
// learning loop runs through the MCP server.
func NewPredictCmd() *cobra.Command {
	var configPath string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "predict <text>",
		Short: "Classify a request and show the proposed tool sequence",
		Args:  cobra.MinimumNArgs(1),
		Example: `  intent-hub-mcp predict "read the main.py file"
  intent-hub-mcp predict 請幫我讀取 main.py 文件`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(configPath, dbPath, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the model database")

	return cmd
}

func runPredict(configPath, dbPath, text string) error {
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

	res, err := rt.learner.Ingest(text)
	if err != nil {
		return err
	}

	fmt.Printf("Intent:     %s (%.1f%%)\n", res.Intent, res.Confidence*100)
	fmt.Printf("Decision:   %s\n", res.Decision)
	fmt.Printf("Tools:      %s\n", strings.Join(res.Tools, " → "))
	fmt.Printf("Model:      v%d\n", res.ModelVersion)

	intents := make([]string, 0, len(res.Scores))
	for intent := range res.Scores {
		intents = append(intents, intent)
	}
	sort.Slice(intents, func(i, j int) bool {
		return res.Scores[intents[i]] > res.Scores[intents[j]]
	})

	fmt.Println("\nScores:")
	for _, intent := range intents {
		fmt.Printf("  %-12s %.4f\n", intent, res.Scores[intent])
	}
	return nil
}
