// Package main serves the read API over ingested articles.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/DjordjeVuckovic/news-aggregator/internal/api/router"
	"github.com/DjordjeVuckovic/news-aggregator/internal/api/server"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
	"github.com/labstack/echo/v4"
)

func main() {
	appEnv := os.Getenv("ENV")

	sCfg, err := server.LoadConfig(appEnv)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(env.LogLevel())

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg).
		SetupMiddlewares().
		SetupErrorHandler()

	reader, healthChecker, cleanup, err := factory.NewReader(s.Context(), *storageCfg)
	if err != nil {
		slog.Error("Failed to create storage reader", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	s.SetupHealthChecks("/health", healthChecker)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "News Aggregator API is running")
	})

	router.NewArticleRouter(s.Echo, reader).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		cleanup()
		os.Exit(1)
	}
}
