package main

import (
	gmw "github.com/Laisky/gin-middlewares/v7"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kortix-ai/gateway/billing"
	"github.com/kortix-ai/gateway/common/client"
	"github.com/kortix-ai/gateway/common/config"
	"github.com/kortix-ai/gateway/common/logger"
	"github.com/kortix-ai/gateway/controller"
	"github.com/kortix-ai/gateway/model"
	relaycontroller "github.com/kortix-ai/gateway/relay/controller"
	"github.com/kortix-ai/gateway/relay/provider"
	"github.com/kortix-ai/gateway/router"
	"github.com/kortix-ai/gateway/search"
)

func main() {
	_ = godotenv.Load()
	config.Load()
	if config.DebugEnabled || config.IsDevMode() {
		logger.SetDebug()
	}
	logger.Logger.Info("starting gateway",
		zap.String("env", config.EnvMode),
		zap.String("port", config.Port))

	client.Init()

	if err := model.InitDB(config.SupabaseDSN); err != nil {
		logger.Logger.Fatal("init database failed", zap.Error(err))
	}

	fallbackLedger := billing.NewHTTPLedger(config.BackendAPIURL, config.BackendAPIKey, client.ImpatientHTTPClient)
	billingSvc := billing.NewService(fallbackLedger)
	registry := provider.NewRegistry()
	relaycontroller.Setup(registry, billingSvc)

	webSearch := search.NewWebClient(config.TavilyAPIURL, config.TavilyAPIKey, client.SearchHTTPClient)
	imageSearch := search.NewImageClient(config.SerperAPIURL, config.SerperAPIKey, client.SearchHTTPClient)
	controller.Setup(registry, billingSvc, webSearch, imageSearch)

	if config.EnvMode == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gmw.NewLoggerMiddleware(
		gmw.WithLevel(glog.LevelInfo.String()),
		gmw.WithLogger(logger.Logger.Named("gin")),
	))
	router.SetRouter(engine)

	if err := engine.Run(":" + config.Port); err != nil {
		logger.Logger.Fatal("server exited", zap.Error(err))
	}
}
