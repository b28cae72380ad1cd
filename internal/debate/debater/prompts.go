package debater

import (
	"fmt"
	"strings"

	"github.com/roundtable-dev/roundtable/internal/debate"
	"github.com/roundtable-dev/roundtable/internal/openrouter"
)

func systemPrompt(perspective debate.Perspective, topic string, round int) string {
	var instruction string
	if round == 1 {
		instruction = fmt.Sprintf(
			"This is the opening round. State your view on the topic and how you arrived at it. "+
				"Do NOT rebut your opponents yet. Your viewpoint should be clear, concise, and "+
				"firmly rooted in the %s perspective.", perspective)
	} else {
		instruction = fmt.Sprintf(
			"This is round %d. Defend your arguments and directly rebut your opponents' "+
				"arguments where they differ from yours. Stay in character as %s.",
			round, perspective.Persona())
	}

	return fmt.Sprintf(
		"You are %s, representing the %s perspective in a debate on: %s\n%s\n"+
			"MANDATORY: support your argument with the evidence provided below and cite it "+
			"inline using its tag, e.g. [E1]. Every argument must carry at least one citation.",
		perspective.Persona(), perspective, topic, instruction)
}

func evidenceSection(pool *debate.EvidencePool) string {
	if pool == nil || len(pool.Items) == 0 {
		return "No research evidence is available for your perspective."
	}
	var sb strings.Builder
	sb.WriteString("Your research evidence:\n")
	for _, item := range pool.Items {
		fmt.Fprintf(&sb, "[%s] %s - %s (%s)\n", item.ID, item.Title, item.Snippet, item.URL)
	}
	return sb.String()
}

func buildMessages(perspective debate.Perspective, pool *debate.EvidencePool, transcript *debate.Transcript, sameRound []debate.Argument, round int) []openrouter.Message {
	msgs := []openrouter.Message{
		{Role: "system", Content: systemPrompt(perspective, transcript.Topic, round)},
		{Role: "user", Content: evidenceSection(pool)},
	}
	for _, r := range transcript.Rounds {
		for _, arg := range r.Arguments {
			msgs = append(msgs, turnMessage(arg))
		}
	}
	for _, arg := range sameRound {
		msgs = append(msgs, turnMessage(arg))
	}
	msgs = append(msgs, openrouter.Message{
		Role:    "user",
		Content: "It's your turn to speak. Provide your argument, citing your evidence with [E#] tags.",
	})
	return msgs
}

func turnMessage(arg debate.Argument) openrouter.Message {
	return openrouter.Message{
		Role:    "user",
		Content: fmt.Sprintf("[Round %d] %s (%s): %s", arg.Round, arg.Perspective.Persona(), arg.Perspective, arg.Claim),
	}
}
