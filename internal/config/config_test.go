package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENROUTER_API_KEY", "TAVILY_API_KEY",
		"ROUNDTABLE_OUTPUT_DIR", "ROUNDTABLE_REDIS_ADDR",
		"ROUNDTABLE_ROUNDS", "ROUNDTABLE_MAX_RETRIES", "ROUNDTABLE_MAX_EVIDENCE",
		"ROUNDTABLE_RESEARCH_TIMEOUT", "ROUNDTABLE_TURN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rounds != 2 || cfg.MaxRetries != 2 || cfg.MaxEvidence != 5 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("expected default output dir, got %q", cfg.OutputDir)
	}
	if cfg.ResearchTimeout != 60*time.Second || cfg.TurnTimeout != 2*time.Minute {
		t.Errorf("unexpected timeout defaults: %+v", cfg)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("TAVILY_API_KEY", "tv-key")
	t.Setenv("ROUNDTABLE_ROUNDS", "4")
	t.Setenv("ROUNDTABLE_REDIS_ADDR", "localhost:6379")
	t.Setenv("ROUNDTABLE_RESEARCH_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "or-key" || cfg.TavilyKey != "tv-key" {
		t.Errorf("keys not loaded: %+v", cfg)
	}
	if cfg.Rounds != 4 {
		t.Errorf("expected 4 rounds, got %d", cfg.Rounds)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("redis addr not loaded: %q", cfg.RedisAddr)
	}
	if cfg.ResearchTimeout != 90*time.Second {
		t.Errorf("research timeout not loaded: %v", cfg.ResearchTimeout)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROUNDTABLE_ROUNDS", "two")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric rounds")
	}

	clearEnv(t)
	t.Setenv("ROUNDTABLE_TURN_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero rounds", Config{Rounds: 0, MaxRetries: 0, MaxEvidence: 5}},
		{"negative retries", Config{Rounds: 1, MaxRetries: -1, MaxEvidence: 5}},
		{"zero evidence", Config{Rounds: 1, MaxRetries: 0, MaxEvidence: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	ok := Config{Rounds: 1, MaxRetries: 0, MaxEvidence: 1}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
