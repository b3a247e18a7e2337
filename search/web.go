// Package search implements the web and image search adapters: pure request
// translation and response normalization over fixed upstream endpoints.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Laisky/errors/v2"
)

// Search depths accepted by the web search upstream.
const (
	DepthBasic    = "basic"
	DepthAdvanced = "advanced"
)

// MaxWebResults caps max_results for web search.
const MaxWebResults = 10

// WebResult is the normalized web search hit. Optional fields are nil, not
// empty strings.
type WebResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Snippet       string  `json:"snippet"`
	PublishedDate *string `json:"published_date"`
}

// WebClient calls the Tavily-style search upstream, which authenticates via
// an api_key field in the request body.
type WebClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewWebClient builds the web search client; nil when no key is configured.
func NewWebClient(baseURL, apiKey string, client *http.Client) *WebClient {
	if apiKey == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &WebClient{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		PublishedDate *string `json:"published_date"`
	} `json:"results"`
}

// Execute runs one web search. maxResults is clamped to 1..MaxWebResults;
// an unknown depth falls back to basic.
func (w *WebClient) Execute(ctx context.Context, query string, maxResults int, depth string) ([]WebResult, error) {
	if depth != DepthAdvanced {
		depth = DepthBasic
	}
	maxResults = clamp(maxResults, 1, MaxWebResults)

	payload, err := json.Marshal(tavilyRequest{
		APIKey:      w.APIKey,
		Query:       query,
		SearchDepth: depth,
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.BaseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build search request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "web search upstream")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, errors.Errorf("web search upstream status %d: %s", resp.StatusCode, snippet)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode search response")
	}

	results := make([]WebResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, WebResult{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       r.Content,
			PublishedDate: emptyToNil(r.PublishedDate),
		})
	}
	return results, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
