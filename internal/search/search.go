// Package search provides research provider implementations.
//
// Available providers:
//
//   - Tavily: requires an API key, returns scored results
//   - DuckDuckGo: free, no API key (scrapes the lite HTML interface)
//
// Implement Provider to add another backend.
package search

import (
	"context"
	"errors"
)

// Result is a single item returned by a Provider.
type Result struct {
	URL     string
	Title   string
	Snippet string
	Score   float64
}

// Provider answers a query with up to limit ranked results.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// ErrRateLimited is returned when the provider kept answering 429 past the
// retry budget.
var ErrRateLimited = errors.New("search: rate limited")

// ErrUnavailable is returned when the provider cannot be reached or answers
// with a server error.
var ErrUnavailable = errors.New("search: provider unavailable")
