package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/roundtable-dev/roundtable/internal/debate"
	"github.com/roundtable-dev/roundtable/internal/report"
	"github.com/roundtable-dev/roundtable/internal/store"
)

func newTestServer(t *testing.T) (*store.Store, func(*http.Request) (*http.Response, error)) {
	t.Helper()
	mr := miniredis.RunT(t)
	st, err := store.New(&redis.Options{Addr: mr.Addr()}, "roundtable-test")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	app := newServerApp(st)
	return st, func(req *http.Request) (*http.Response, error) {
		return app.Test(req, -1)
	}
}

func TestHealthz(t *testing.T) {
	_, do := newTestServer(t)

	resp, err := do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	_, do := newTestServer(t)

	resp, err := do(httptest.NewRequest(http.MethodGet, "/sessions/nope", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListAndGetSessions(t *testing.T) {
	st, do := newTestServer(t)

	artifact := &report.Artifact{
		SessionID:    "s-1",
		Topic:        "Should school start later?",
		State:        "completed",
		Perspectives: debate.DefaultPerspectives(),
		Rounds:       []debate.Round{{Number: 1}},
	}
	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	if err := st.SaveArtifact(req.Context(), artifact); err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}

	resp, err := do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var summaries []store.SessionSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		t.Fatalf("decoding summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].SessionID != "s-1" {
		t.Errorf("unexpected listing: %+v", summaries)
	}

	getResp, err := do(httptest.NewRequest(http.MethodGet, "/sessions/s-1", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer getResp.Body.Close()
	body, _ := io.ReadAll(getResp.Body)
	got, err := report.ParseArtifact(body)
	if err != nil {
		t.Fatalf("parsing artifact response: %v", err)
	}
	if got.Topic != artifact.Topic {
		t.Errorf("unexpected artifact: %+v", got)
	}
}
