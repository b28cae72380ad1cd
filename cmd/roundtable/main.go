package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "roundtable",
		Short: "Evidence-backed multi-perspective debate orchestrator",
		Long:  "Orchestrates debates between perspective-driven AI agents: each side researches the topic, argues over a fixed number of rounds with mandatory citations, and a neutral evaluator produces a balanced recommendation.",
	}

	root.PersistentFlags().String("api-key", "", "OpenRouter API key (overrides OPENROUTER_API_KEY env var)")
	root.PersistentFlags().String("tavily-key", "", "Tavily API key (overrides TAVILY_API_KEY; empty falls back to DuckDuckGo)")
	root.PersistentFlags().String("output-dir", "", "Output directory for session files")
	root.PersistentFlags().String("redis-addr", "", "Redis address for the session store (empty disables storing)")
	root.PersistentFlags().Int("rounds", 0, "Number of debate rounds")
	root.PersistentFlags().Int("max-retries", -1, "Argument regenerations allowed per turn")
	root.PersistentFlags().Int("max-evidence", 0, "Evidence items per perspective")

	root.AddCommand(newDebateCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newModelsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
