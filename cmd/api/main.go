package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/assistant/gemini"
	"github.com/MrJamesThe3rd/financia/internal/auth"
	"github.com/MrJamesThe3rd/financia/internal/backend"
	"github.com/MrJamesThe3rd/financia/internal/config"
	financiaHttp "github.com/MrJamesThe3rd/financia/internal/http"
	authHandler "github.com/MrJamesThe3rd/financia/internal/http/auth"
	chatHandler "github.com/MrJamesThe3rd/financia/internal/http/chat"
	exportHandler "github.com/MrJamesThe3rd/financia/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/financia/internal/http/importcsv"
	investmentHandler "github.com/MrJamesThe3rd/financia/internal/http/investment"
	matchingHandler "github.com/MrJamesThe3rd/financia/internal/http/matching"
	recordsHandler "github.com/MrJamesThe3rd/financia/internal/http/records"
	summaryHandler "github.com/MrJamesThe3rd/financia/internal/http/summary"
	taxHandler "github.com/MrJamesThe3rd/financia/internal/http/tax"
	txHandler "github.com/MrJamesThe3rd/financia/internal/http/transaction"
	"github.com/MrJamesThe3rd/financia/internal/importer"
	"github.com/MrJamesThe3rd/financia/internal/logging"
	"github.com/MrJamesThe3rd/financia/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/financia/internal/matching/store"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(cfg, log)
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := store.Cleanup(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("failed to configure tokens", "error", err)
		os.Exit(1)
	}

	var client assistant.Client
	if cfg.AssistantEnabled() {
		gc, err := gemini.New(ctx, gemini.Config{
			APIKey:      cfg.Assistant.APIKey,
			Model:       cfg.Assistant.Model,
			Temperature: cfg.Assistant.Temperature,
		})
		if err != nil {
			slog.Error("failed to create assistant client", "error", err)
			os.Exit(1)
		}

		client = gc
	} else {
		slog.Warn("GEMINI_API_KEY not set, chat is disabled")
	}

	var (
		directory       = auth.NewDirectory(store.Store, log)
		sessionManager  = session.NewManager(store.Store, client, log, cfg.Assistant.Timeout)
		matchingService = matching.NewService(matchingStore.New(store.Store))
		importService   = importer.NewService()
	)

	router := financiaHttp.New(financiaHttp.Handlers{
		Auth:         authHandler.NewHandler(directory, tokens, sessionManager),
		Transactions: txHandler.NewHandler(),
		Investments:  investmentHandler.NewHandler(),
		Taxes:        taxHandler.NewHandler(),
		Records:      recordsHandler.NewHandler(),
		Summary:      summaryHandler.NewHandler(),
		Chat:         chatHandler.NewHandler(),
		Import:       importHandler.NewHandler(importService, matchingService),
		Matching:     matchingHandler.NewHandler(matchingService),
		Export:       exportHandler.NewHandler(),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Assistant.Timeout + cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", cfg.App.Port, "backend", cfg.Storage.Backend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
