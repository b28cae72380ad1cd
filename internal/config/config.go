package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries session and infrastructure settings. Flags override these
// values; the CLI owns that merging.
type Config struct {
	APIKey    string // OpenRouter
	TavilyKey string // empty means fall back to DuckDuckGo
	OutputDir string
	RedisAddr string // empty disables the session store

	Rounds      int
	MaxRetries  int
	MaxEvidence int

	ResearchTimeout time.Duration
	TurnTimeout     time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// The API key may also arrive via a CLI flag, so it is not required here;
	// the CLI validates the merged value.
	apiKey := os.Getenv("OPENROUTER_API_KEY")

	outputDir := os.Getenv("ROUNDTABLE_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "output"
	}

	rounds, err := envInt("ROUNDTABLE_ROUNDS", 2)
	if err != nil {
		return nil, err
	}
	maxRetries, err := envInt("ROUNDTABLE_MAX_RETRIES", 2)
	if err != nil {
		return nil, err
	}
	maxEvidence, err := envInt("ROUNDTABLE_MAX_EVIDENCE", 5)
	if err != nil {
		return nil, err
	}
	researchTimeout, err := envDuration("ROUNDTABLE_RESEARCH_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	turnTimeout, err := envDuration("ROUNDTABLE_TURN_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:          apiKey,
		TavilyKey:       os.Getenv("TAVILY_API_KEY"),
		OutputDir:       outputDir,
		RedisAddr:       os.Getenv("ROUNDTABLE_REDIS_ADDR"),
		Rounds:          rounds,
		MaxRetries:      maxRetries,
		MaxEvidence:     maxEvidence,
		ResearchTimeout: researchTimeout,
		TurnTimeout:     turnTimeout,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the orchestrator would refuse anyway, so bad
// configuration surfaces before any session starts.
func (c *Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("config: Rounds must be >= 1, got %d", c.Rounds)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: MaxRetries must be >= 0, got %d", c.MaxRetries)
	}
	if c.MaxEvidence < 1 {
		return fmt.Errorf("config: MaxEvidence must be >= 1, got %d", c.MaxEvidence)
	}
	return nil
}

func envInt(key string, defaultVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}
