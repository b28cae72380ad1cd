package debate

import (
	"context"

	"github.com/roundtable-dev/roundtable/internal/openrouter"
)

// Perspective identifies a debater's stance-generating role.
type Perspective string

const (
	School  Perspective = "school"
	Student Perspective = "student"
	Parent  Perspective = "parent"
)

// DefaultPerspectives returns the fixed turn order for a session.
func DefaultPerspectives() []Perspective {
	return []Perspective{School, Student, Parent}
}

// Persona returns the display name a perspective speaks as.
func (p Perspective) Persona() string {
	switch p {
	case School:
		return "Principal"
	case Student:
		return "John"
	case Parent:
		return "Mom"
	}
	return string(p)
}

// EvidenceItem is a single research result. Items are never mutated after
// the pool is built; IDs are pool-scoped (E1, E2, ...).
type EvidenceItem struct {
	ID      string  `json:"id"`
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// EvidencePool holds one perspective's evidence, frozen after the research
// phase. Item order is descending relevance, ties in retrieval order.
type EvidencePool struct {
	Perspective Perspective    `json:"perspective"`
	Items       []EvidenceItem `json:"items"`
}

// Lookup resolves an evidence ID within the pool.
func (p *EvidencePool) Lookup(id string) (EvidenceItem, bool) {
	if p == nil {
		return EvidenceItem{}, false
	}
	for _, item := range p.Items {
		if item.ID == id {
			return item, true
		}
	}
	return EvidenceItem{}, false
}

// Argument is one accepted debater turn. Citations reference the arguing
// perspective's own evidence pool and are non-empty by construction: an
// argument that fails validation is never stored.
type Argument struct {
	Perspective Perspective `json:"perspective"`
	Round       int         `json:"round"`
	Claim       string      `json:"claim"`
	Citations   []string    `json:"citations"`
}

// Round is complete only when every perspective has exactly one accepted
// argument, in turn order.
type Round struct {
	Number    int        `json:"number"`
	Arguments []Argument `json:"arguments"`
}

// Transcript is the append-only record of completed rounds. It is owned by
// the orchestrator during the debate and immutable once evaluation begins.
type Transcript struct {
	Topic  string  `json:"topic"`
	Rounds []Round `json:"rounds"`
}

// PerspectiveAnalysis is the evaluator's read on one side of the debate.
type PerspectiveAnalysis struct {
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
}

// ArgumentRef points at an accepted argument in the transcript.
type ArgumentRef struct {
	Perspective Perspective `json:"perspective"`
	Round       int         `json:"round"`
}

// EvaluationReport is the terminal artifact of the evaluation phase.
type EvaluationReport struct {
	Analyses       map[Perspective]PerspectiveAnalysis `json:"analyses"`
	Recommendation string                              `json:"recommendation"`
	CitedArguments []ArgumentRef                       `json:"cited_arguments"`
	Advice         string                              `json:"advice,omitempty"`
}

// CitesPerspective reports whether the report references at least one
// argument from the given perspective.
func (r *EvaluationReport) CitesPerspective(p Perspective) bool {
	for _, ref := range r.CitedArguments {
		if ref.Perspective == p {
			return true
		}
	}
	return false
}

// LLMClient interface so agents can be tested against a mock client.
type LLMClient interface {
	ChatCompletion(ctx context.Context, model string, messages []openrouter.Message) (*openrouter.ChatResponse, error)
}

// Researcher gathers evidence for one perspective during the research phase.
// Returning ErrNoEvidence is non-fatal; the orchestrator records an empty
// pool and proceeds.
type Researcher interface {
	Research(ctx context.Context, topic string, perspective Perspective, maxItems int) ([]EvidenceItem, error)
}

// Debater produces one argument turn. sameRound carries earlier accepted
// arguments of the in-progress round, so later perspectives can rebut
// same-round speakers.
type Debater interface {
	ProduceArgument(ctx context.Context, perspective Perspective, pool *EvidencePool, transcript *Transcript, sameRound []Argument, round int) (*Argument, error)
}

// Evaluator turns a finalized transcript into an EvaluationReport. Advise is
// a follow-up pass producing compromise solutions; its failure is non-fatal.
type Evaluator interface {
	Evaluate(ctx context.Context, transcript *Transcript, pools map[Perspective]*EvidencePool) (*EvaluationReport, error)
	Advise(ctx context.Context, topic string, report *EvaluationReport) (string, error)
}

// Result is the orchestrator's public outcome. A failed session still
// carries every fully completed round for diagnostics.
type Result struct {
	SessionID    string
	Topic        string
	Perspectives []Perspective
	State        State
	Failure      FailureReason
	Transcript   *Transcript
	Pools        map[Perspective]*EvidencePool
	Report       *EvaluationReport
}

// Completed reports whether the session finished the full debate.
func (r *Result) Completed() bool {
	return r.State == Completed
}
