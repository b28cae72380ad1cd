package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const tavilyMaxAttempts = 4

// Tavily calls the Tavily search API.
type Tavily struct {
	apiKey  string
	baseURL string
	client  *http.Client
	// Depth controls Tavily's depth parameter (basic or advanced).
	Depth string
}

// NewTavily constructs a Tavily search provider.
func NewTavily(apiKey string, depth string) *Tavily {
	return NewTavilyWithBaseURL(apiKey, depth, "https://api.tavily.com")
}

// NewTavilyWithBaseURL constructs a Tavily provider against a custom
// endpoint (for testing).
func NewTavilyWithBaseURL(apiKey, depth, baseURL string) *Tavily {
	if depth == "" {
		depth = "basic"
	}
	return &Tavily{
		apiKey:  apiKey,
		baseURL: baseURL,
		Depth:   depth,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Search posts a query to Tavily, backing off on 429 up to a bounded number
// of attempts.
func (t *Tavily) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}
	if limit <= 0 {
		limit = 5
	}

	payload, err := json.Marshal(map[string]any{
		"query":       query,
		"api_key":     t.apiKey,
		"depth":       t.Depth,
		"max_results": limit,
	})
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := 1 * time.Second
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("tavily: %w: %v", ErrUnavailable, err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()
		if attempt+1 >= tavilyMaxAttempts {
			return nil, fmt.Errorf("tavily: %w", ErrRateLimited)
		}

		// Back off and retry on 429, doubling the delay each time up to 30 s.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("tavily: %w: http %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily: http %d", resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title   string  `json:"title"`
			URL     string  `json:"url"`
			Content string  `json:"content"`
			Score   float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Content, Score: r.Score})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
