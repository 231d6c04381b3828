/*
Package main is the entry point for intent-hub-mcp CLI.

intent-hub-mcp is an intent-driven model router: it classifies request
text with a local online-learning model, proposes a tool sequence, and
decides whether the local prediction is confident enough to act on or
the request should escalate to a remote model.

Usage:
  intent-hub-mcp [command]

Available Commands:
  serve       Run the MCP server (stdio transport)
  bootstrap   Train the model from labeled samples
  predict     Classify a request and show the proposed tool sequence
  status      Show model version, sample count, and recent outcomes
  rollback    Restore the model to an earlier persisted version
  samples     Search the training-sample corpus
  version     Show version information
  help        Help about any command

Examples:
  # Seed the model before first use
  intent-hub-mcp bootstrap

  # Run as MCP server
  intent-hub-mcp serve

  # Classify a request without learning from it
  intent-hub-mcp predict "read the main.py file"
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/intent-hub-mcp/internal/cli"
	"github.com/khanglvm/intent-hub-mcp/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "intent-hub-mcp",
		Short: "Intent-driven model router with online learning",
		Long: `intent-hub-mcp classifies request text into an intent, proposes the
tool sequence for that intent, and routes on confidence:
  • LOCAL           - act on the local prediction
  • REMOTE          - escalate to a remote model
  • HYBRID_ESCALATE - act locally but have the result reviewed

Every reported outcome feeds back into the model, so predictions improve
with use. Model state is versioned in SQLite and can be rolled back.`,
		Version: version.GetVersion(),
	}

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewBootstrapCmd())
	rootCmd.AddCommand(cli.NewPredictCmd())
	rootCmd.AddCommand(cli.NewStatusCmd())
	rootCmd.AddCommand(cli.NewRollbackCmd())
	rootCmd.AddCommand(cli.NewSamplesCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
