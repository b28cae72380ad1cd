// Package evaluator implements the neutral agent that turns a finalized
// transcript into a structured, evidence-referencing recommendation.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/roundtable-dev/roundtable/internal/debate"
	"github.com/roundtable-dev/roundtable/internal/openrouter"
)

const maxParseRetries = 3

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// Evaluator analyzes a completed debate using an LLM. The structural
// contract (valid JSON, one citation per perspective) is re-asked a bounded
// number of times; the orchestrator enforces the citation rule post-hoc.
type Evaluator struct {
	llm   debate.LLMClient
	model string
}

// New creates an Evaluator.
func New(llm debate.LLMClient, model string) *Evaluator {
	return &Evaluator{llm: llm, model: model}
}

// Evaluate implements debate.Evaluator.
func (e *Evaluator) Evaluate(ctx context.Context, transcript *debate.Transcript, pools map[debate.Perspective]*debate.EvidencePool) (*debate.EvaluationReport, error) {
	system := openrouter.Message{Role: "system", Content: systemPrompt()}
	user := openrouter.Message{Role: "user", Content: transcriptPrompt(transcript, pools)}

	for attempt := 0; attempt < maxParseRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluator: %w", err)
		}

		msgs := []openrouter.Message{system, user}
		if attempt > 0 {
			msgs = append(msgs, openrouter.Message{
				Role:    "user",
				Content: "Your previous response was not valid JSON. Return ONLY a JSON object, no markdown, no explanation.",
			})
		}

		resp, err := e.llm.ChatCompletion(ctx, e.model, msgs)
		if err != nil {
			return nil, fmt.Errorf("evaluator: %w: %v", debate.ErrEvaluationFailed, err)
		}
		if len(resp.Choices) == 0 {
			continue
		}

		if report, ok := parseReportJSON(resp.Choices[0].Message.Content); ok {
			return report, nil
		}
	}

	return nil, fmt.Errorf("evaluator: %w: no parsable report", debate.ErrEvaluationFailed)
}

// Advise implements debate.Evaluator. It produces compromise solutions from
// an accepted report; callers treat failure as non-fatal.
func (e *Evaluator) Advise(ctx context.Context, topic string, report *debate.EvaluationReport) (string, error) {
	resp, err := e.llm.ChatCompletion(ctx, e.model, []openrouter.Message{
		{Role: "user", Content: advicePrompt(topic, report.Recommendation)},
	})
	if err != nil {
		return "", fmt.Errorf("evaluator: advice: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("evaluator: advice: %w", openrouter.ErrEmptyCompletion)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// reportJSON mirrors the wire format the evaluator prompt demands.
type reportJSON struct {
	Analyses       map[string]debate.PerspectiveAnalysis `json:"analyses"`
	Recommendation string                                `json:"recommendation"`
	CitedArguments []struct {
		Perspective string `json:"perspective"`
		Round       int    `json:"round"`
	} `json:"cited_arguments"`
}

// parseReportJSON tries to extract and parse an EvaluationReport from LLM
// output: direct parse, then fenced code block, then first { to last }.
func parseReportJSON(raw string) (*debate.EvaluationReport, bool) {
	candidates := []string{strings.TrimSpace(raw)}
	if matches := codeBlockRe.FindStringSubmatch(raw); len(matches) > 1 {
		candidates = append(candidates, strings.TrimSpace(matches[1]))
	}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		candidates = append(candidates, raw[start:end+1])
	}

	for _, candidate := range candidates {
		var parsed reportJSON
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		if parsed.Recommendation == "" {
			continue
		}
		return convertReport(parsed), true
	}
	return nil, false
}

func convertReport(parsed reportJSON) *debate.EvaluationReport {
	report := &debate.EvaluationReport{
		Analyses:       make(map[debate.Perspective]debate.PerspectiveAnalysis, len(parsed.Analyses)),
		Recommendation: parsed.Recommendation,
	}
	for name, analysis := range parsed.Analyses {
		report.Analyses[debate.Perspective(strings.ToLower(name))] = analysis
	}
	for _, ref := range parsed.CitedArguments {
		report.CitedArguments = append(report.CitedArguments, debate.ArgumentRef{
			Perspective: debate.Perspective(strings.ToLower(ref.Perspective)),
			Round:       ref.Round,
		})
	}
	return report
}
