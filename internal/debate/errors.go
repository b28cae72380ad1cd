package debate

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by agents and classified by the orchestrator.
var (
	// ErrNoEvidence means research completed but found nothing usable.
	ErrNoEvidence = errors.New("debate: no evidence found")

	// ErrProviderUnavailable means the research provider could not be
	// reached even after bounded retries.
	ErrProviderUnavailable = errors.New("debate: research provider unavailable")

	// ErrGenerationFailed means the language model could not produce text.
	ErrGenerationFailed = errors.New("debate: generation failed")

	// ErrEvaluationFailed means the evaluator could not produce a
	// well-formed report.
	ErrEvaluationFailed = errors.New("debate: evaluation failed")
)

// FailureReason classifies why a session ended in the Failed state.
type FailureReason string

const (
	FailureNone               FailureReason = ""
	FailureConfiguration      FailureReason = "configuration_error"
	FailurePerspectiveBlocked FailureReason = "perspective_blocked"
	FailureEvaluation         FailureReason = "evaluation_failure"
	FailureCancelled          FailureReason = "cancelled"
)

// ConfigError is fatal and never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "debate: invalid configuration: " + e.Reason
}

// BlockedError reports a perspective that could not produce a valid argument
// within the retry budget.
type BlockedError struct {
	Perspective Perspective
	Round       int
	LastReason  ValidationReason
	Err         error
}

func (e *BlockedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("debate: perspective %s blocked in round %d: %v", e.Perspective, e.Round, e.Err)
	}
	return fmt.Sprintf("debate: perspective %s blocked in round %d: %s", e.Perspective, e.Round, e.LastReason)
}

func (e *BlockedError) Unwrap() error { return e.Err }
