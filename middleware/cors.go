package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/common/config"
)

// CORS allows the configured origins, plus any localhost origin outside
// production.
func CORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowOriginFunc = func(origin string) bool {
		for _, allowed := range config.AllowedOrigins {
			if strings.EqualFold(origin, allowed) {
				return true
			}
		}
		if config.EnvMode != config.EnvProduction {
			return strings.HasPrefix(origin, "http://localhost") ||
				strings.HasPrefix(origin, "http://127.0.0.1")
		}
		return false
	}
	return cors.New(corsConfig)
}
