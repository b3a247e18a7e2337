package controller

import (
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/middleware"
	"github.com/kortix-ai/gateway/relay/provider"
)

// modelEntry is one row of the public model listing. Available reflects
// whether a request for the model could actually be served: its native
// provider is configured, or the aggregator can take the reroute.
type modelEntry struct {
	ID            string  `json:"id"`
	Object        string  `json:"object"`
	Provider      string  `json:"provider"`
	InputPer1M    float64 `json:"input_per_1m"`
	OutputPer1M   float64 `json:"output_per_1m"`
	ContextWindow int     `json:"context_window"`
	Tier          string  `json:"tier"`
	Available     bool    `json:"available"`
}

func toModelEntry(id string, cfg provider.ModelConfig) modelEntry {
	available := false
	if registry != nil {
		available = registry.Get(cfg.Provider).IsConfigured() ||
			registry.Get(provider.OpenRouter).IsConfigured()
	}
	return modelEntry{
		ID:            id,
		Object:        "model",
		Provider:      cfg.Provider,
		InputPer1M:    cfg.InputPer1M,
		OutputPer1M:   cfg.OutputPer1M,
		ContextWindow: cfg.ContextWindow,
		Tier:          cfg.Tier,
		Available:     available,
	}
}

// ListModels handles GET /v1/models.
func ListModels(c *gin.Context) {
	ids := provider.ListModelIDs()
	entries := make([]modelEntry, 0, len(ids))
	for _, id := range ids {
		cfg, _ := provider.GetModelConfig(id)
		entries = append(entries, toModelEntry(id, cfg))
	}
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   entries,
	})
}

// GetModel handles GET /v1/models/*id. The wildcard keeps slash-bearing
// catalog ids addressable; its captured value carries a leading slash.
func GetModel(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")
	cfg, ok := provider.GetModelConfig(id)
	if !ok {
		middleware.AbortWithError(c, http.StatusNotFound, errors.Errorf("model %q not found", id))
		return
	}
	c.JSON(http.StatusOK, toModelEntry(id, cfg))
}
