// Package router mounts the HTTP surface.
package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kortix-ai/gateway/controller"
	"github.com/kortix-ai/gateway/middleware"
)

// SetRouter mounts all routes and route-level middlewares on the engine.
func SetRouter(engine *gin.Engine) {
	engine.Use(middleware.RequestId())
	engine.Use(middleware.CORS())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedContentTypes([]string{"text/event-stream"})))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   true,
			"message": "not found",
			"status":  http.StatusNotFound,
		})
	})

	engine.GET("/health", controller.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := engine.Group("/", middleware.Auth())
	protected.POST("/web-search", controller.WebSearch)
	protected.POST("/image-search", controller.ImageSearch)

	v1 := protected.Group("/v1")
	v1.POST("/chat/completions", controller.ChatCompletions)
	v1.GET("/models", controller.ListModels)
	// Wildcard, not :id: catalog ids like openrouter/auto contain slashes.
	v1.GET("/models/*id", controller.GetModel)
}
