package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	audioimpl "github.com/foxseedlab/speechrelay/external/audio"
	configloader "github.com/foxseedlab/speechrelay/external/config"
	repositoryimpl "github.com/foxseedlab/speechrelay/external/repository"
	summarizerimpl "github.com/foxseedlab/speechrelay/external/summarizer"
	synthesizerimpl "github.com/foxseedlab/speechrelay/external/synthesizer"
	transcriberimpl "github.com/foxseedlab/speechrelay/external/transcriber"
	translatorimpl "github.com/foxseedlab/speechrelay/external/translator"
	webhookimpl "github.com/foxseedlab/speechrelay/external/webhook"
	"github.com/foxseedlab/speechrelay/internal/api"
	"github.com/foxseedlab/speechrelay/internal/config"
	"github.com/foxseedlab/speechrelay/internal/pipeline"
	"github.com/foxseedlab/speechrelay/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
)

const (
	httpShutdownTimeout    = 10 * time.Second
	sessionShutdownTimeout = 60 * time.Second
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http server")
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	synthesizerimpl.RegisterDI(injector)
	translatorimpl.RegisterDI(injector)
	summarizerimpl.RegisterDI(injector)
	session.RegisterDI(injector)
	pipeline.RegisterDI(injector)
	api.RegisterDI(injector)

	return injector
}

func runServer(cfg *config.Config, injector *do.RootScope) {
	e, err := do.Invoke[*echo.Echo](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve session manager", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		slog.Error("failed to create upload dir", "error", err, "upload_dir", cfg.UploadDir)
		os.Exit(1)
	}

	done := make(chan struct{})
	go func() {
		slog.Info("http server listening", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}

	httpCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(httpCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}

	sessionCtx, cancelSessions := context.WithTimeout(context.Background(), sessionShutdownTimeout)
	defer cancelSessions()
	if err := manager.Wait(sessionCtx); err != nil {
		slog.Error("transcription sessions did not drain", "error", err)
	}

	if report := injector.Shutdown(); report != nil && !report.Succeed {
		slog.Error("dependency shutdown failed", "error", report.Error())
	}
}
