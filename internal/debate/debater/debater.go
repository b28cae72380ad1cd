// Package debater implements the LLM-backed agent that produces one
// argument turn per round.
package debater

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/roundtable-dev/roundtable/internal/debate"
)

var citationRe = regexp.MustCompile(`\[(E\d+)\]`)

// Debater turns a perspective's evidence and the debate so far into an
// argument. The orchestrator validates the result before accepting it.
type Debater struct {
	llm    debate.LLMClient
	models map[debate.Perspective]string
}

// New creates a debater. models maps each perspective to the model that
// speaks for it; a missing entry falls back to any configured model.
func New(llm debate.LLMClient, models map[debate.Perspective]string) *Debater {
	return &Debater{llm: llm, models: models}
}

// ProduceArgument implements debate.Debater.
func (d *Debater) ProduceArgument(ctx context.Context, perspective debate.Perspective, pool *debate.EvidencePool, transcript *debate.Transcript, sameRound []debate.Argument, round int) (*debate.Argument, error) {
	msgs := buildMessages(perspective, pool, transcript, sameRound, round)

	resp, err := d.llm.ChatCompletion(ctx, d.model(perspective), msgs)
	if err != nil {
		return nil, fmt.Errorf("debater: %w: %v", debate.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("debater: %w: empty completion", debate.ErrGenerationFailed)
	}

	claim := strings.TrimSpace(resp.Choices[0].Message.Content)
	return &debate.Argument{
		Perspective: perspective,
		Round:       round,
		Claim:       claim,
		Citations:   extractCitations(claim),
	}, nil
}

func (d *Debater) model(perspective debate.Perspective) string {
	if m, ok := d.models[perspective]; ok {
		return m
	}
	for _, m := range d.models {
		return m
	}
	return ""
}

// extractCitations pulls the [E#] tags out of a claim, first occurrence
// order, duplicates removed.
func extractCitations(claim string) []string {
	matches := citationRe.FindAllStringSubmatch(claim, -1)
	seen := make(map[string]bool, len(matches))
	var ids []string
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	}
	return ids
}
