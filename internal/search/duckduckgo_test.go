package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const ddgLitePage = `<html><body><table>
<tr><td><a class="result-link" href="https://a.example/page">First &amp; Best</a></td></tr>
<tr><td class="result-snippet">Alpha snippet with <b>markup</b> inside</td></tr>
<tr><td><a class="result-link" href="https://b.example/page">Second</a></td></tr>
<tr><td class="result-snippet">Beta snippet</td></tr>
</table></body></html>`

func TestDuckDuckGoSearchParsesLitePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("q"); got != "school start times" {
			t.Errorf("query not forwarded: %q", got)
		}
		_, _ = w.Write([]byte(ddgLitePage))
	}))
	defer server.Close()

	d := NewDuckDuckGoWithBaseURL(server.URL)
	results, err := d.Search(context.Background(), "school start times", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].URL != "https://a.example/page" {
		t.Errorf("unexpected first URL: %q", results[0].URL)
	}
	if results[0].Title != "First & Best" {
		t.Errorf("entities not decoded: %q", results[0].Title)
	}
	if results[0].Snippet != "Alpha snippet with markup inside" {
		t.Errorf("markup not stripped: %q", results[0].Snippet)
	}
}

func TestDuckDuckGoSearchHonorsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ddgLitePage))
	}))
	defer server.Close()

	d := NewDuckDuckGoWithBaseURL(server.URL)
	results, err := d.Search(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestDuckDuckGoRejectsEmptyQuery(t *testing.T) {
	d := NewDuckDuckGo()
	if _, err := d.Search(context.Background(), "   ", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestDuckDuckGoTooManyRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	d := NewDuckDuckGoWithBaseURL(server.URL)
	_, err := d.Search(context.Background(), "q", 5)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestParseLiteResultsEmptyPage(t *testing.T) {
	if got := parseLiteResults("<html><body>no results</body></html>", 5); got != nil {
		t.Errorf("expected nil for empty page, got %v", got)
	}
}

func TestCleanHTML(t *testing.T) {
	got := cleanHTML("  <b>bold</b> &amp; &quot;quoted&quot;&nbsp;text  ")
	if got != `bold & "quoted" text` {
		t.Errorf("unexpected cleaned string: %q", got)
	}
}
