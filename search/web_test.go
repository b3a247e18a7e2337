package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWebClientRequiresKey(t *testing.T) {
	require.Nil(t, NewWebClient("https://api.tavily.com", "", nil))
	require.NotNil(t, NewWebClient("https://api.tavily.com", "tvly-key", nil))
}

func TestWebExecute(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Go", "url": "https://go.dev", "content": "The Go programming language", "published_date": "2024-01-02"},
				{"title": "Gin", "url": "https://gin-gonic.com", "content": "Gin web framework", "published_date": ""},
			},
		})
	}))
	defer srv.Close()

	client := NewWebClient(srv.URL, "tvly-key", srv.Client())
	results, err := client.Execute(context.Background(), "golang", 5, DepthAdvanced)
	require.NoError(t, err)

	require.Equal(t, "tvly-key", got.APIKey, "key travels in the body")
	require.Equal(t, "golang", got.Query)
	require.Equal(t, DepthAdvanced, got.SearchDepth)
	require.Equal(t, 5, got.MaxResults)

	require.Len(t, results, 2)
	require.Equal(t, "Go", results[0].Title)
	require.Equal(t, "The Go programming language", results[0].Snippet)
	require.NotNil(t, results[0].PublishedDate)
	require.Equal(t, "2024-01-02", *results[0].PublishedDate)
	require.Nil(t, results[1].PublishedDate, "empty dates normalize to nil")
}

func TestWebExecuteClampsAndDefaults(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()
	client := NewWebClient(srv.URL, "tvly-key", srv.Client())

	_, err := client.Execute(context.Background(), "q", 500, "turbo")
	require.NoError(t, err)
	require.Equal(t, MaxWebResults, got.MaxResults, "over-cap clamps down")
	require.Equal(t, DepthBasic, got.SearchDepth, "unknown depth falls back to basic")

	_, err = client.Execute(context.Background(), "q", -3, DepthBasic)
	require.NoError(t, err)
	require.Equal(t, 1, got.MaxResults, "non-positive clamps up")
}

func TestWebExecuteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	client := NewWebClient(srv.URL, "tvly-key", srv.Client())

	_, err := client.Execute(context.Background(), "q", 5, DepthBasic)
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}
