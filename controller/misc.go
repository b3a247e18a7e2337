// Package controller holds the HTTP handlers mounted by the router.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/billing"
	"github.com/kortix-ai/gateway/common/config"
	"github.com/kortix-ai/gateway/common/helper"
	"github.com/kortix-ai/gateway/relay/provider"
	"github.com/kortix-ai/gateway/search"
)

var (
	registry    *provider.Registry
	billingSvc  *billing.Service
	webSearch   *search.WebClient
	imageSearch *search.ImageClient
)

// Setup wires the handlers' collaborators. Search clients may be nil when
// their upstream is not configured.
func Setup(r *provider.Registry, b *billing.Service, web *search.WebClient, image *search.ImageClient) {
	registry = r
	billingSvc = b
	webSearch = web
	imageSearch = image
}

// Health is the unauthenticated liveness endpoint.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "gateway",
		"timestamp": helper.GetTimestamp(),
		"env":       config.EnvMode,
	})
}
