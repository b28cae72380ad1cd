package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roundtable-dev/roundtable/internal/config"
	"github.com/roundtable-dev/roundtable/internal/debate"
	"github.com/roundtable-dev/roundtable/internal/debate/debater"
	"github.com/roundtable-dev/roundtable/internal/debate/evaluator"
	"github.com/roundtable-dev/roundtable/internal/debate/research"
	"github.com/roundtable-dev/roundtable/internal/models"
	"github.com/roundtable-dev/roundtable/internal/openrouter"
	"github.com/roundtable-dev/roundtable/internal/output"
	"github.com/roundtable-dev/roundtable/internal/report"
	"github.com/roundtable-dev/roundtable/internal/search"
	"github.com/roundtable-dev/roundtable/internal/store"
)

func newDebateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debate",
		Short: "Run a researched multi-perspective debate on a topic",
		RunE:  runDebate,
	}
	cmd.Flags().String("topic", "", "Debate topic (required)")
	cmd.Flags().String("name", "", "Override output folder name (default: auto-slug from topic)")
	cmd.Flags().String("perspectives", "", "Comma-separated turn order (default: school,student,parent)")
	cmd.Flags().Bool("verbose", false, "Log orchestration details")
	cmd.MarkFlagRequired("topic")
	return cmd
}

func runDebate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	name, _ := cmd.Flags().GetString("name")
	perspectivesFlag, _ := cmd.Flags().GetString("perspectives")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := mergeFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key required: set --api-key flag or OPENROUTER_API_KEY env var")
	}

	perspectives, err := parsePerspectives(perspectivesFlag)
	if err != nil {
		return err
	}

	// Setup context with Ctrl+C cancellation
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	client := openrouter.NewClient(cfg.APIKey)

	// Fetch live models, fallback to defaults
	allModels, err := client.ListModels(ctx)
	if err != nil {
		log.WithError(err).Warn("could not fetch models, using defaults")
		allModels = models.DefaultFreeModels()
	}
	registry := models.NewRegistry(allModels)
	if len(registry.FreeModels()) == 0 {
		registry = models.NewRegistry(models.DefaultFreeModels())
	}
	assigned, evalModel := registry.Assign(perspectives)

	var provider search.Provider
	if cfg.TavilyKey != "" {
		provider = search.NewTavily(cfg.TavilyKey, "basic")
	} else {
		provider = search.NewDuckDuckGo()
	}

	orch, err := debate.NewOrchestrator(debate.Params{
		Topic:           topic,
		Perspectives:    perspectives,
		Rounds:          cfg.Rounds,
		MaxRetries:      cfg.MaxRetries,
		MaxEvidence:     cfg.MaxEvidence,
		ResearchTimeout: cfg.ResearchTimeout,
		TurnTimeout:     cfg.TurnTimeout,
	},
		research.NewAgent(provider, client, evalModel),
		debater.New(client, assigned),
		evaluator.New(client, evalModel),
		log,
	)
	if err != nil {
		return err
	}

	// Setup output directory
	slug := name
	if slug == "" {
		slug = report.GenerateSlug(topic)
	}
	outDir, err := report.CreateOutputDir(cfg.OutputDir, slug)
	if err != nil {
		return err
	}
	writer := report.NewWriter(outDir)

	fmt.Printf("Debate: %s\n", topic)
	fmt.Printf("Perspectives: %s | Rounds: %d | Output: %s\n", perspectivesFlag, cfg.Rounds, outDir)

	orch.OnArgument = func(arg debate.Argument) {
		output.PrintArgument(arg)
		writer.Log(fmt.Sprintf("[round %d] %s: %s", arg.Round, arg.Perspective, arg.Claim))
	}
	orch.OnStateChange = func(state debate.State, round int) {
		output.PrintState(state, round)
		writer.Log(fmt.Sprintf("state: %s (round %d)", state, round))
	}

	res := orch.Run(ctx)

	artifact, err := report.Assemble(res)
	if err != nil {
		return err
	}
	if err := writer.WriteArtifact(artifact); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := writer.WriteMarkdown(artifact); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	saveToStore(cfg, log, artifact)

	output.PrintSummary(res)
	fmt.Printf("\nSession files saved to: %s\n", outDir)

	if !res.Completed() {
		return fmt.Errorf("session failed: %s", res.Failure)
	}
	return nil
}

// saveToStore persists the artifact when a store is configured. Storage is
// best-effort: the on-disk artifact is already written.
func saveToStore(cfg *config.Config, log *logrus.Logger, artifact *report.Artifact) {
	if cfg.RedisAddr == "" {
		return
	}
	st, err := store.New(&redis.Options{Addr: cfg.RedisAddr}, "roundtable")
	if err != nil {
		log.WithError(err).Warn("session store unavailable")
		return
	}
	defer st.Close()
	if err := st.SaveArtifact(context.Background(), artifact); err != nil {
		log.WithError(err).Warn("could not store session")
	}
}

func mergeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Root().PersistentFlags()
	if v, _ := flags.GetString("api-key"); v != "" {
		cfg.APIKey = v
	}
	if v, _ := flags.GetString("tavily-key"); v != "" {
		cfg.TavilyKey = v
	}
	if v, _ := flags.GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := flags.GetString("redis-addr"); v != "" {
		cfg.RedisAddr = v
	}
	if v, _ := flags.GetInt("rounds"); v != 0 {
		cfg.Rounds = v
	}
	if v, _ := flags.GetInt("max-retries"); v >= 0 {
		cfg.MaxRetries = v
	}
	if v, _ := flags.GetInt("max-evidence"); v != 0 {
		cfg.MaxEvidence = v
	}
	return cfg.Validate()
}

func parsePerspectives(flag string) ([]debate.Perspective, error) {
	if strings.TrimSpace(flag) == "" {
		return debate.DefaultPerspectives(), nil
	}
	known := map[debate.Perspective]bool{
		debate.School: true, debate.Student: true, debate.Parent: true,
	}
	var perspectives []debate.Perspective
	for _, part := range strings.Split(flag, ",") {
		p := debate.Perspective(strings.ToLower(strings.TrimSpace(part)))
		if !known[p] {
			return nil, fmt.Errorf("unknown perspective %q (valid: school, student, parent)", part)
		}
		perspectives = append(perspectives, p)
	}
	return perspectives, nil
}
