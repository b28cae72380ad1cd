// Package store persists session artifacts in Redis so UI layers can list
// and fetch past debates, including failed sessions kept for diagnostics.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/roundtable-dev/roundtable/internal/report"
)

// ErrNotFound is returned when a session ID does not exist.
var ErrNotFound = errors.New("store: session not found")

// SessionSummary is the listing view of a stored session.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Topic     string `json:"topic"`
	State     string `json:"state"`
	Rounds    int    `json:"rounds"`
}

// Store provides namespaced Redis operations for session artifacts. It is
// safe for concurrent use.
type Store struct {
	rdb       *redis.Client
	namespace string
}

// New creates a Store. All keys are prefixed with the namespace.
func New(opts *redis.Options, namespace string) (*Store, error) {
	if namespace == "" {
		return nil, fmt.Errorf("store: namespace cannot be empty")
	}
	return &Store{rdb: redis.NewClient(opts), namespace: namespace}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.namespace, id)
}

func (s *Store) indexKey() string {
	return s.namespace + ":sessions"
}

// SaveArtifact writes a session artifact and appends its ID to the session
// index. Saving the same session twice overwrites the artifact without
// duplicating the index entry.
func (s *Store) SaveArtifact(ctx context.Context, a *report.Artifact) error {
	if a == nil || a.SessionID == "" {
		return fmt.Errorf("store: artifact has no session id")
	}
	data, err := a.JSON()
	if err != nil {
		return fmt.Errorf("store: serializing artifact: %w", err)
	}

	existed, err := s.rdb.Exists(ctx, s.sessionKey(a.SessionID)).Result()
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := s.rdb.Set(ctx, s.sessionKey(a.SessionID), data, 0).Err(); err != nil {
		return fmt.Errorf("store: writing artifact: %w", err)
	}
	if existed == 0 {
		if err := s.rdb.RPush(ctx, s.indexKey(), a.SessionID).Err(); err != nil {
			return fmt.Errorf("store: indexing session: %w", err)
		}
	}
	return nil
}

// GetArtifact retrieves a session artifact by ID.
func (s *Store) GetArtifact(ctx context.Context, sessionID string) (*report.Artifact, error) {
	data, err := s.rdb.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: reading artifact: %w", err)
	}
	return report.ParseArtifact(data)
}

// ListSessions returns summaries in insertion order. Sessions whose
// artifacts have been deleted out from under the index are skipped.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	ids, err := s.rdb.LRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("store: listing sessions: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(ids))
	for _, id := range ids {
		artifact, err := s.GetArtifact(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, SessionSummary{
			SessionID: artifact.SessionID,
			Topic:     artifact.Topic,
			State:     artifact.State,
			Rounds:    len(artifact.Rounds),
		})
	}
	return summaries, nil
}
