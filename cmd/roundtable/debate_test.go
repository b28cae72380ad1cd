package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/roundtable-dev/roundtable/internal/config"
	"github.com/roundtable-dev/roundtable/internal/debate"
)

func TestParsePerspectivesDefault(t *testing.T) {
	got, err := parsePerspectives("")
	if err != nil {
		t.Fatalf("parsePerspectives: %v", err)
	}
	want := debate.DefaultPerspectives()
	if len(got) != len(want) {
		t.Fatalf("expected %d perspectives, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestParsePerspectivesCustomOrder(t *testing.T) {
	got, err := parsePerspectives(" Parent, school ")
	if err != nil {
		t.Fatalf("parsePerspectives: %v", err)
	}
	if len(got) != 2 || got[0] != debate.Parent || got[1] != debate.School {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestParsePerspectivesRejectsUnknown(t *testing.T) {
	if _, err := parsePerspectives("school,janitor"); err == nil {
		t.Fatal("expected error for unknown perspective")
	}
}

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "roundtable"}
	root.PersistentFlags().String("api-key", "", "")
	root.PersistentFlags().String("tavily-key", "", "")
	root.PersistentFlags().String("output-dir", "", "")
	root.PersistentFlags().String("redis-addr", "", "")
	root.PersistentFlags().Int("rounds", 0, "")
	root.PersistentFlags().Int("max-retries", -1, "")
	root.PersistentFlags().Int("max-evidence", 0, "")
	return root
}

func TestMergeFlagsOverridesConfig(t *testing.T) {
	root := newTestRoot()
	child := &cobra.Command{Use: "debate", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(child)
	if err := root.PersistentFlags().Set("api-key", "flag-key"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	if err := root.PersistentFlags().Set("rounds", "5"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}

	cfg := &config.Config{APIKey: "env-key", Rounds: 2, MaxRetries: 2, MaxEvidence: 5}
	if err := mergeFlags(child, cfg); err != nil {
		t.Fatalf("mergeFlags: %v", err)
	}
	if cfg.APIKey != "flag-key" {
		t.Errorf("flag should override env, got %q", cfg.APIKey)
	}
	if cfg.Rounds != 5 {
		t.Errorf("expected rounds 5, got %d", cfg.Rounds)
	}
	if cfg.MaxEvidence != 5 {
		t.Errorf("unset flag must not clobber config, got %d", cfg.MaxEvidence)
	}
}

func TestMergeFlagsValidatesResult(t *testing.T) {
	root := newTestRoot()
	child := &cobra.Command{Use: "debate", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(child)
	if err := root.PersistentFlags().Set("rounds", "-3"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}

	cfg := &config.Config{Rounds: 2, MaxRetries: 2, MaxEvidence: 5}
	if err := mergeFlags(child, cfg); err == nil {
		t.Fatal("expected validation error for negative rounds")
	}
}
