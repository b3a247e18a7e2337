package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kortix-ai/gateway/billing"
	"github.com/kortix-ai/gateway/common/config"
	"github.com/kortix-ai/gateway/common/ctxkey"
	"github.com/kortix-ai/gateway/common/logger"
	"github.com/kortix-ai/gateway/relay/provider"
	"github.com/kortix-ai/gateway/search"
)

func newHandlerContext(t *testing.T, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	gmw.SetLogger(c, logger.Logger)
	c.Set(ctxkey.AccountID, config.TestAccountID)
	return c, w
}

func TestHealth(t *testing.T) {
	c, w := newHandlerContext(t, http.MethodGet, "/health", "")
	Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "gateway", body["service"])
}

func TestListModels(t *testing.T) {
	c, w := newHandlerContext(t, http.MethodGet, "/v1/models", "")
	ListModels(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Object string       `json:"object"`
		Data   []modelEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "list", body.Object)
	require.NotEmpty(t, body.Data)

	var found bool
	for _, entry := range body.Data {
		if entry.ID == "gpt-4o" {
			found = true
			require.Equal(t, "model", entry.Object)
			require.Equal(t, "openai", entry.Provider)
			require.InDelta(t, 2.5, entry.InputPer1M, 1e-9)
		}
	}
	require.True(t, found)
}

func TestGetModel(t *testing.T) {
	// Wildcard captures carry a leading slash.
	c, w := newHandlerContext(t, http.MethodGet, "/v1/models/gpt-4o", "")
	c.Params = gin.Params{{Key: "id", Value: "/gpt-4o"}}
	GetModel(c)

	require.Equal(t, http.StatusOK, w.Code)
	var entry modelEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.Equal(t, "gpt-4o", entry.ID)

	c, w = newHandlerContext(t, http.MethodGet, "/v1/models/nope", "")
	c.Params = gin.Params{{Key: "id", Value: "/nope"}}
	GetModel(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetModelSlashBearingID(t *testing.T) {
	c, w := newHandlerContext(t, http.MethodGet, "/v1/models/openrouter/auto", "")
	c.Params = gin.Params{{Key: "id", Value: "/openrouter/auto"}}
	GetModel(c)

	require.Equal(t, http.StatusOK, w.Code)
	var entry modelEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.Equal(t, "openrouter/auto", entry.ID)
	require.Equal(t, "openrouter", entry.Provider)
}

func TestWebSearchHandler(t *testing.T) {
	var got struct {
		Query       string `json:"query"`
		SearchDepth string `json:"search_depth"`
		MaxResults  int    `json:"max_results"`
	}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Go", "url": "https://go.dev", "content": "Go docs"},
			},
		})
	}))
	defer upstream.Close()
	Setup(provider.NewRegistry(), billing.NewService(nil), search.NewWebClient(upstream.URL, "tvly-key", upstream.Client()), nil)

	c, w := newHandlerContext(t, http.MethodPost, "/web-search",
		`{"query":"golang","search_depth":"advanced"}`)
	WebSearch(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "golang", got.Query)
	require.Equal(t, "advanced", got.SearchDepth)
	require.Equal(t, 5, got.MaxResults, "default max_results")

	var body struct {
		Results []search.WebResult `json:"results"`
		Query   string             `json:"query"`
		Cost    float64            `json:"cost"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	require.Equal(t, "golang", body.Query)
	require.Zero(t, body.Cost, "test account is never billed")
}

func TestWebSearchHandlerValidation(t *testing.T) {
	Setup(provider.NewRegistry(), billing.NewService(nil), &search.WebClient{}, nil)

	c, w := newHandlerContext(t, http.MethodPost, "/web-search", `{"max_results":3}`)
	WebSearch(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.True(t, c.IsAborted())
}

func TestWebSearchHandlerUnconfigured(t *testing.T) {
	Setup(provider.NewRegistry(), billing.NewService(nil), nil, nil)

	c, w := newHandlerContext(t, http.MethodPost, "/web-search", `{"query":"golang"}`)
	WebSearch(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestImageSearchHandler(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]any{
				{"title": "Gopher", "imageUrl": "https://img.example/g.png"},
			},
		})
	}))
	defer upstream.Close()
	Setup(provider.NewRegistry(), billing.NewService(nil), nil, search.NewImageClient(upstream.URL, "serper-key", upstream.Client()))

	c, w := newHandlerContext(t, http.MethodPost, "/image-search", `{"query":"gopher"}`)
	ImageSearch(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Results []search.ImageResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	require.Equal(t, "https://img.example/g.png", body.Results[0].URL)
}

func TestImageSearchHandlerUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer upstream.Close()
	Setup(provider.NewRegistry(), billing.NewService(nil), nil, search.NewImageClient(upstream.URL, "serper-key", upstream.Client()))

	c, w := newHandlerContext(t, http.MethodPost, "/image-search", `{"query":"gopher"}`)
	ImageSearch(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
