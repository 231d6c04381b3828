package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/intent-hub-mcp/internal/storage"
)

// NewSamplesCmd creates the 'samples' command group for inspecting the
// training corpus and the recorded learning signals.
func NewSamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Inspect training samples and recorded outcomes",
	}

	cmd.AddCommand(newSamplesSearchCmd())
	cmd.AddCommand(newSamplesExportCmd())

	return cmd
}

// newSamplesSearchCmd creates 'samples search' for BM25 lookup over the
// training corpus.
func newSamplesSearchCmd() *cobra.Command {
	var intent string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the training-sample corpus",
		Args:  cobra.MinimumNArgs(1),
		Example: `  # What has the model seen about reading files?
  intent-hub-mcp samples search "read file"

  # Scope to one intent
  intent-hub-mcp samples search "test" --intent run_test`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSamplesSearch(strings.Join(args, " "), intent, limit)
		},
	}

	cmd.Flags().StringVar(&intent, "intent", "", "scope results to one intent label")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")

	return cmd
}

func runSamplesSearch(query, intent string, limit int) error {
	idx, err := buildIndexer()
	if err != nil {
		return fmt.Errorf("failed to build sample index: %w", err)
	}
	defer idx.Close()

	results, err := idx.Search(query, limit)
	if intent != "" {
		results, err = idx.SearchByIntent(query, intent, limit)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No samples match %q.\n", query)
		return nil
	}

	fmt.Printf("Samples matching %q (%d):\n", query, len(results))
	for _, r := range results {
		fmt.Printf("  [%.2f] %-12s %s\n", r.Score, r.Intent, r.Text)
		if len(r.Tools) > 0 {
			fmt.Printf("         tools: %s\n", strings.Join(r.Tools, ", "))
		}
	}
	return nil
}

// newSamplesExportCmd creates 'samples export', which dumps archived
// outcomes as JSON for offline analysis.
func newSamplesExportCmd() *cobra.Command {
	var dbPath string
	var output string
	var limit int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived outcomes as JSON",
		Example: `  # Dump the last 500 outcomes to stdout
  intent-hub-mcp samples export --limit 500

  # Write to a file
  intent-hub-mcp samples export -o outcomes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSamplesExport(dbPath, output, limit)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the model database")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum number of outcomes")

	return cmd
}

func runSamplesExport(dbPath, output string, limit int) error {
	if dbPath == "" {
		var err error
		dbPath, err = storage.DefaultPath()
		if err != nil {
			return err
		}
	}

	store := storage.NewStore(dbPath, zap.NewNop())
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	records, err := store.RecentOutcomes(limit)
	if err != nil {
		return fmt.Errorf("failed to load outcomes: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode outcomes: %w", err)
	}

	if output == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Printf("✅ Exported %d outcomes to %s\n", len(records), output)
	return nil
}
