// Package report assembles the external session artifact and writes it to
// disk. Assembly is pure: same result in, byte-identical artifact out.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/roundtable-dev/roundtable/internal/debate"
)

// Artifact is the structured output consumed by presentation layers. The
// tree shape is Topic → Rounds → Arguments → Citations, plus the evidence
// pools and one evaluation report.
type Artifact struct {
	SessionID     string                   `json:"session_id"`
	Topic         string                   `json:"topic"`
	State         string                   `json:"state"`
	FailureReason string                   `json:"failure_reason,omitempty"`
	Perspectives  []debate.Perspective     `json:"perspectives"`
	Rounds        []debate.Round           `json:"rounds"`
	Evidence      []debate.EvidencePool    `json:"evidence"`
	Evaluation    *debate.EvaluationReport `json:"evaluation,omitempty"`
}

// Assemble builds the artifact from a session result. Evidence pools are
// emitted in the session's configured perspective order, so serialization is
// deterministic for a fixed result.
func Assemble(res *debate.Result) (*Artifact, error) {
	if res == nil || res.Transcript == nil {
		return nil, fmt.Errorf("report: result is incomplete")
	}

	artifact := &Artifact{
		SessionID:     res.SessionID,
		Topic:         res.Topic,
		State:         res.State.String(),
		FailureReason: string(res.Failure),
		Perspectives:  res.Perspectives,
		Rounds:        res.Transcript.Rounds,
		Evaluation:    res.Report,
	}
	for _, p := range res.Perspectives {
		pool := res.Pools[p]
		if pool == nil {
			pool = &debate.EvidencePool{Perspective: p}
		}
		artifact.Evidence = append(artifact.Evidence, *pool)
	}
	return artifact, nil
}

// JSON renders the artifact as indented JSON.
func (a *Artifact) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return data, nil
}

// ParseArtifact is the inverse of JSON, for store and UI consumers.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	return &a, nil
}

// PoolFor returns the evidence pool for a perspective, if present.
func (a *Artifact) PoolFor(p debate.Perspective) (*debate.EvidencePool, bool) {
	for i := range a.Evidence {
		if a.Evidence[i].Perspective == p {
			return &a.Evidence[i], true
		}
	}
	return nil, false
}
