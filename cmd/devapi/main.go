package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OwesNiyazi/propertyFront/config"
	"github.com/OwesNiyazi/propertyFront/internal/devapi"
	"github.com/OwesNiyazi/propertyFront/internal/logging"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Setup(logging.Options{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Color:  cfg.App.Environment == "development",
	})
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := devapi.New(devapi.Options{
		JWTSecret:     cfg.DevAPI.JWTSecret,
		AdminEmail:    cfg.DevAPI.AdminEmail,
		AdminPassword: cfg.DevAPI.AdminPassword,
		Version:       cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("failed to build dev API: %v", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.DevAPI.Port,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("dev API listening", "addr", httpServer.Addr, "admin", cfg.DevAPI.AdminEmail)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("dev API stopped")
}
