package evaluator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roundtable-dev/roundtable/internal/debate"
)

func systemPrompt() string {
	return `You are a neutral evaluator analyzing a debate. Return ONLY valid JSON in this exact format:
{"analyses": {"<perspective>": {"strengths": "...", "weaknesses": "..."}}, "recommendation": "...", "cited_arguments": [{"perspective": "<perspective>", "round": 1}]}
Rules:
- Include an analyses entry for EVERY perspective that spoke.
- cited_arguments must reference at least one argument from EVERY perspective, by perspective name and round number.
- Weigh each position by how well its claims are covered by the cited evidence; do not introduce claims that lack a citation traceable to the transcript's evidence.
- The recommendation must be balanced and actionable for decision-makers.
Do NOT include any other text, explanation, or markdown formatting. Return ONLY the JSON object.`
}

func transcriptPrompt(transcript *debate.Transcript, pools map[debate.Perspective]*debate.EvidencePool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Debate topic: %s\n\n", transcript.Topic)
	for _, round := range transcript.Rounds {
		for _, arg := range round.Arguments {
			fmt.Fprintf(&sb, "[Round %d] %s (%s): %s\n", round.Number, arg.Perspective.Persona(), arg.Perspective, arg.Claim)
		}
	}
	sb.WriteString("\nEvidence index:\n")
	for _, p := range sortedPerspectives(pools) {
		pool := pools[p]
		if pool == nil || len(pool.Items) == 0 {
			continue
		}
		for _, item := range pool.Items {
			fmt.Fprintf(&sb, "%s [%s] %s (%s)\n", p, item.ID, item.Title, item.URL)
		}
	}
	return sb.String()
}

func sortedPerspectives(pools map[debate.Perspective]*debate.EvidencePool) []debate.Perspective {
	perspectives := make([]debate.Perspective, 0, len(pools))
	for p := range pools {
		perspectives = append(perspectives, p)
	}
	sort.Slice(perspectives, func(i, j int) bool { return perspectives[i] < perspectives[j] })
	return perspectives
}

func advicePrompt(topic, recommendation string) string {
	return fmt.Sprintf(`You are a neutral advisor analyzing a debate to provide compromise solutions.

Debate topic: %s

Evaluation: %s

Based on the evaluation, provide 3 compromise solutions that balance all perspectives.
For each solution describe the benefits for each party, the potential negative
consequences, and practical implementation steps. Focus on realistic compromises
that all parties could accept.`, topic, recommendation)
}
