package debate

import (
	"fmt"
	"strings"
)

// ValidationReason identifies why an argument was rejected.
type ValidationReason string

const (
	EmptyClaim               ValidationReason = "empty_claim"
	MissingCitation          ValidationReason = "missing_citation"
	UnknownEvidenceReference ValidationReason = "unknown_evidence_reference"
)

// ValidationResult is the outcome of citation validation.
type ValidationResult struct {
	OK     bool
	Reason ValidationReason
	Detail string
}

// Validate checks that a claim carries at least one citation resolvable in
// the arguing perspective's own evidence pool. It is deterministic and
// side-effect free; re-validating an accepted argument always succeeds.
func Validate(claim string, citations []string, pool *EvidencePool) ValidationResult {
	if strings.TrimSpace(claim) == "" {
		return ValidationResult{Reason: EmptyClaim, Detail: "claim is empty or whitespace"}
	}
	if len(citations) == 0 {
		return ValidationResult{Reason: MissingCitation, Detail: "argument cites no evidence"}
	}
	for _, id := range citations {
		if _, ok := pool.Lookup(id); !ok {
			return ValidationResult{
				Reason: UnknownEvidenceReference,
				Detail: fmt.Sprintf("citation %q does not resolve in the evidence pool", id),
			}
		}
	}
	return ValidationResult{OK: true}
}
