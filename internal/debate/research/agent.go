// Package research implements the evidence-gathering agent that populates a
// perspective's pool before the debate starts.
package research

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/roundtable-dev/roundtable/internal/debate"
	"github.com/roundtable-dev/roundtable/internal/openrouter"
	"github.com/roundtable-dev/roundtable/internal/search"
)

// Agent researches a topic from one perspective's stance. It formulates a
// perspective-specific query via the language model, runs it through the
// provider, deduplicates by URL and returns items ordered by descending
// relevance (retrieval order breaks ties).
type Agent struct {
	provider search.Provider
	llm      debate.LLMClient
	model    string
}

// NewAgent creates a research agent. model is the LLM used for query
// formulation only; the provider does the actual searching.
func NewAgent(provider search.Provider, llm debate.LLMClient, model string) *Agent {
	return &Agent{provider: provider, llm: llm, model: model}
}

// Research implements debate.Researcher.
func (a *Agent) Research(ctx context.Context, topic string, perspective debate.Perspective, maxItems int) ([]debate.EvidenceItem, error) {
	if maxItems <= 0 {
		maxItems = 5
	}
	query := a.formulateQuery(ctx, topic, perspective)

	// Ask for extra headroom so URL dedupe still fills the pool.
	results, err := a.provider.Search(ctx, query, maxItems*2)
	if err != nil {
		if errors.Is(err, search.ErrRateLimited) || errors.Is(err, search.ErrUnavailable) {
			return nil, fmt.Errorf("research: %w: %v", debate.ErrProviderUnavailable, err)
		}
		return nil, fmt.Errorf("research: %w", err)
	}

	results = dedupeByURL(results)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxItems {
		results = results[:maxItems]
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("research: %q for %s: %w", query, perspective, debate.ErrNoEvidence)
	}

	items := make([]debate.EvidenceItem, len(results))
	for i, r := range results {
		items[i] = debate.EvidenceItem{
			ID:      fmt.Sprintf("E%d", i+1),
			URL:     r.URL,
			Title:   r.Title,
			Snippet: r.Snippet,
			Score:   r.Score,
		}
	}
	return items, nil
}

// formulateQuery asks the LLM for one stance-specific search query. A
// generation failure falls back to a deterministic query so research can
// still proceed.
func (a *Agent) formulateQuery(ctx context.Context, topic string, perspective debate.Perspective) string {
	fallback := fmt.Sprintf("%s %s perspective evidence", topic, perspective)
	if a.llm == nil {
		return fallback
	}

	prompt := fmt.Sprintf(
		"You are %s, a %s representative preparing for a debate on: %s\n"+
			"Reply with ONE specific web search query (a single line, no quotes) that would "+
			"surface facts, statistics or examples supporting the %s perspective.",
		perspective.Persona(), perspective, topic, perspective,
	)
	resp, err := a.llm.ChatCompletion(ctx, a.model, []openrouter.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil || len(resp.Choices) == 0 {
		return fallback
	}

	query := strings.TrimSpace(resp.Choices[0].Message.Content)
	if query == "" {
		return fallback
	}
	// Keep only the first line in case the model elaborates.
	if idx := strings.IndexByte(query, '\n'); idx >= 0 {
		query = strings.TrimSpace(query[:idx])
	}
	return strings.Trim(query, `"`)
}

func dedupeByURL(results []search.Result) []search.Result {
	seen := make(map[string]bool, len(results))
	deduped := results[:0]
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		deduped = append(deduped, r)
	}
	return deduped
}
