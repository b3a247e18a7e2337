package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewImageClientRequiresKey(t *testing.T) {
	require.Nil(t, NewImageClient("https://google.serper.dev", "", nil))
	require.NotNil(t, NewImageClient("https://google.serper.dev", "serper-key", nil))
}

func TestImageExecute(t *testing.T) {
	var got serperImageRequest
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images", r.URL.Path)
		gotHeader = r.Header.Get("X-API-KEY")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		width, height := 800, 600
		_ = json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]any{
				{
					"title": "Gopher", "imageUrl": "https://img.example/g.png",
					"thumbnailUrl": "https://img.example/g-thumb.png",
					"link":         "https://blog.example/gopher",
					"imageWidth":   width, "imageHeight": height,
				},
				{"title": "No dims", "imageUrl": "https://img.example/n.png"},
			},
		})
	}))
	defer srv.Close()

	client := NewImageClient(srv.URL, "serper-key", srv.Client())
	results, err := client.Execute(context.Background(), "gopher", 10, true)
	require.NoError(t, err)

	require.Equal(t, "serper-key", gotHeader, "key travels in the header")
	require.Equal(t, "gopher", got.Query)
	require.Equal(t, 10, got.Num)
	require.Equal(t, "active", got.Safe)

	require.Len(t, results, 2)
	require.Equal(t, "https://img.example/g.png", results[0].URL)
	require.Equal(t, "https://blog.example/gopher", results[0].SourceURL)
	require.NotNil(t, results[0].Width)
	require.Equal(t, 800, *results[0].Width)
	require.Nil(t, results[1].Width, "missing dimensions stay nil")
}

func TestImageExecuteSafeSearchOff(t *testing.T) {
	var got serperImageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"images": []any{}})
	}))
	defer srv.Close()
	client := NewImageClient(srv.URL, "serper-key", srv.Client())

	_, err := client.Execute(context.Background(), "q", 100, false)
	require.NoError(t, err)
	require.Empty(t, got.Safe, "safe filter omitted when disabled")
	require.Equal(t, MaxImageResults, got.Num)
}

func TestImageExecuteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()
	client := NewImageClient(srv.URL, "serper-key", srv.Client())

	_, err := client.Execute(context.Background(), "q", 5, true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}
