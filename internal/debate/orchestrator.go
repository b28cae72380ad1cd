package debate

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const evaluationAttempts = 2

// Params configures a debate session.
type Params struct {
	Topic        string
	Perspectives []Perspective
	Rounds       int
	MaxRetries   int // regenerations per turn after the first attempt
	MaxEvidence  int // evidence items per perspective pool

	ResearchTimeout   time.Duration
	TurnTimeout       time.Duration
	EvaluationTimeout time.Duration
}

func (p *Params) applyDefaults() {
	if p.MaxEvidence == 0 {
		p.MaxEvidence = 5
	}
	if p.ResearchTimeout == 0 {
		p.ResearchTimeout = 60 * time.Second
	}
	if p.TurnTimeout == 0 {
		p.TurnTimeout = 2 * time.Minute
	}
	if p.EvaluationTimeout == 0 {
		p.EvaluationTimeout = 2 * time.Minute
	}
}

func (p *Params) validate() error {
	if strings.TrimSpace(p.Topic) == "" {
		return &ConfigError{Reason: "topic must not be empty"}
	}
	if p.Rounds < 1 {
		return &ConfigError{Reason: fmt.Sprintf("round count must be >= 1, got %d", p.Rounds)}
	}
	if p.MaxRetries < 0 {
		return &ConfigError{Reason: fmt.Sprintf("max retries must be >= 0, got %d", p.MaxRetries)}
	}
	if len(p.Perspectives) == 0 {
		return &ConfigError{Reason: "perspective set must not be empty"}
	}
	seen := make(map[Perspective]bool, len(p.Perspectives))
	for _, p := range p.Perspectives {
		if seen[p] {
			return &ConfigError{Reason: fmt.Sprintf("duplicate perspective %q", p)}
		}
		seen[p] = true
	}
	return nil
}

// Orchestrator drives a session through
// Init → Researching → Debating(round 1..N) → Evaluating → Completed,
// with Failed absorbing from any phase. Evidence is frozen before the first
// round and the evaluator only ever sees a complete, validated transcript.
type Orchestrator struct {
	params     Params
	researcher Researcher
	debater    Debater
	evaluator  Evaluator
	log        *logrus.Logger

	sessionID  string
	state      State
	transcript *Transcript
	pools      map[Perspective]*EvidencePool
	report     *EvaluationReport

	// OnArgument is called for every accepted argument.
	OnArgument func(Argument)
	// OnStateChange is called on every transition; round is meaningful only
	// while Debating.
	OnStateChange func(state State, round int)
}

// NewOrchestrator validates the session parameters and builds an
// orchestrator. Invalid parameters surface immediately as *ConfigError,
// before any phase runs.
func NewOrchestrator(params Params, researcher Researcher, debater Debater, evaluator Evaluator, log *logrus.Logger) (*Orchestrator, error) {
	params.applyDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Orchestrator{
		params:     params,
		researcher: researcher,
		debater:    debater,
		evaluator:  evaluator,
		log:        log,
		sessionID:  uuid.NewString(),
		state:      Init,
		transcript: &Transcript{Topic: params.Topic},
		pools:      make(map[Perspective]*EvidencePool, len(params.Perspectives)),
	}, nil
}

// State returns the current phase.
func (o *Orchestrator) State() State { return o.state }

// SessionID returns the session's unique identifier.
func (o *Orchestrator) SessionID() string { return o.sessionID }

// Run executes the full session. Agent failures are classified into the
// failure taxonomy and never leak out raw: the returned Result always
// distinguishes a completed session from a failed one with its partial
// transcript. Cancellation takes effect at phase boundaries; a partially
// completed round is discarded, never persisted.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	o.transition(Researching, 0)
	o.runResearch(ctx)
	if ctx.Err() != nil {
		return o.fail(FailureCancelled)
	}

	for k := 1; k <= o.params.Rounds; k++ {
		o.transition(Debating, k)
		round, err := o.runRound(ctx, k)
		if err != nil {
			if ctx.Err() != nil {
				return o.fail(FailureCancelled)
			}
			o.log.WithError(err).Error("debate round failed")
			return o.fail(FailurePerspectiveBlocked)
		}
		o.transcript.Rounds = append(o.transcript.Rounds, *round)
	}

	o.transition(Evaluating, 0)
	report, err := o.runEvaluation(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return o.fail(FailureCancelled)
		}
		o.log.WithError(err).Error("evaluation failed")
		return o.fail(FailureEvaluation)
	}
	o.report = report

	o.transition(Completed, 0)
	return o.result()
}

// runResearch populates every perspective's evidence pool in parallel. A
// slow or failing perspective degrades to an empty pool; it never blocks the
// others or fails the session.
func (o *Orchestrator) runResearch(ctx context.Context) {
	type outcome struct {
		perspective Perspective
		items       []EvidenceItem
		err         error
	}

	ch := make(chan outcome, len(o.params.Perspectives))
	for _, p := range o.params.Perspectives {
		go func(p Perspective) {
			tctx, cancel := context.WithTimeout(ctx, o.params.ResearchTimeout)
			defer cancel()
			items, err := o.researcher.Research(tctx, o.params.Topic, p, o.params.MaxEvidence)
			ch <- outcome{perspective: p, items: items, err: err}
		}(p)
	}

	for range o.params.Perspectives {
		out := <-ch
		if out.err != nil {
			o.log.WithFields(logrus.Fields{
				"perspective": out.perspective,
			}).WithError(out.err).Warn("research degraded to empty evidence pool")
			o.pools[out.perspective] = &EvidencePool{Perspective: out.perspective}
			continue
		}
		o.pools[out.perspective] = &EvidencePool{Perspective: out.perspective, Items: out.items}
	}
}

// runRound collects one accepted argument per perspective, in turn order.
// Later perspectives see the earlier same-round arguments.
func (o *Orchestrator) runRound(ctx context.Context, number int) (*Round, error) {
	round := Round{Number: number}
	for _, p := range o.params.Perspectives {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("debate: %w", err)
		}
		arg, err := o.produceValidated(ctx, p, round.Arguments, number)
		if err != nil {
			return nil, err
		}
		round.Arguments = append(round.Arguments, *arg)
		if o.OnArgument != nil {
			o.OnArgument(*arg)
		}
	}
	return &round, nil
}

// produceValidated requests a turn from the debater and gates it through
// citation validation, regenerating up to the retry budget.
func (o *Orchestrator) produceValidated(ctx context.Context, p Perspective, sameRound []Argument, number int) (*Argument, error) {
	pool := o.pools[p]
	var lastReason ValidationReason
	var lastErr error

	for attempt := 0; attempt <= o.params.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("debate: %w", err)
		}
		tctx, cancel := context.WithTimeout(ctx, o.params.TurnTimeout)
		arg, err := o.debater.ProduceArgument(tctx, p, pool, o.transcript, sameRound, number)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("debate: %w", ctx.Err())
			}
			lastErr, lastReason = err, ""
			o.log.WithFields(logrus.Fields{
				"perspective": p,
				"round":       number,
				"attempt":     attempt + 1,
			}).WithError(err).Warn("argument generation failed")
			continue
		}

		res := Validate(arg.Claim, arg.Citations, pool)
		if res.OK {
			return arg, nil
		}
		lastErr, lastReason = nil, res.Reason
		o.log.WithFields(logrus.Fields{
			"perspective": p,
			"round":       number,
			"attempt":     attempt + 1,
			"reason":      res.Reason,
		}).Warn("argument rejected by citation validation")
	}

	return nil, &BlockedError{Perspective: p, Round: number, LastReason: lastReason, Err: lastErr}
}

// runEvaluation asks the evaluator for a report and enforces post-hoc that
// every perspective is cited at least once. A deficient report is retried
// once, then the session fails.
func (o *Orchestrator) runEvaluation(ctx context.Context) (*EvaluationReport, error) {
	for attempt := 1; attempt <= evaluationAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("debate: %w", err)
		}
		tctx, cancel := context.WithTimeout(ctx, o.params.EvaluationTimeout)
		report, err := o.evaluator.Evaluate(tctx, o.transcript, o.pools)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("debate: %w", ctx.Err())
			}
			o.log.WithField("attempt", attempt).WithError(err).Warn("evaluator returned error")
			continue
		}

		if missing := o.uncitedPerspectives(report); len(missing) > 0 {
			o.log.WithFields(logrus.Fields{
				"attempt": attempt,
				"missing": missing,
			}).Warn("evaluation report rejected: perspectives not cited")
			continue
		}

		o.attachAdvice(ctx, report)
		return report, nil
	}
	return nil, ErrEvaluationFailed
}

func (o *Orchestrator) uncitedPerspectives(report *EvaluationReport) []Perspective {
	var missing []Perspective
	for _, p := range o.params.Perspectives {
		if !report.CitesPerspective(p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// attachAdvice runs the compromise-advice pass. Advice is garnish: failure
// leaves the report valid with empty advice.
func (o *Orchestrator) attachAdvice(ctx context.Context, report *EvaluationReport) {
	tctx, cancel := context.WithTimeout(ctx, o.params.EvaluationTimeout)
	defer cancel()
	advice, err := o.evaluator.Advise(tctx, o.params.Topic, report)
	if err != nil {
		o.log.WithError(err).Warn("advice generation failed")
		return
	}
	report.Advice = advice
}

func (o *Orchestrator) transition(to State, round int) {
	if !canTransition(o.state, to) {
		panic(fmt.Sprintf("debate: invalid transition %s -> %s", o.state, to))
	}
	o.state = to
	if o.OnStateChange != nil {
		o.OnStateChange(to, round)
	}
}

func (o *Orchestrator) fail(reason FailureReason) *Result {
	o.transition(Failed, 0)
	res := o.result()
	res.Failure = reason
	return res
}

func (o *Orchestrator) result() *Result {
	return &Result{
		SessionID:    o.sessionID,
		Topic:        o.params.Topic,
		Perspectives: append([]Perspective(nil), o.params.Perspectives...),
		State:        o.state,
		Transcript:   o.transcript,
		Pools:        o.pools,
		Report:       o.report,
	}
}
