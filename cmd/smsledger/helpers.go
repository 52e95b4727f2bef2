package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/smsledger/internal/categorizer"
	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/config"
	"github.com/Veraticus/smsledger/internal/engine"
	"github.com/Veraticus/smsledger/internal/lifecycle"
	"github.com/Veraticus/smsledger/internal/llm"
	"github.com/Veraticus/smsledger/internal/resolver"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/Veraticus/smsledger/internal/storage"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath()
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("Could not open the database at "+dbPath, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// app bundles the wired services one command invocation needs.
type app struct {
	store       service.Storage
	banks       *resolver.Resolver
	patterns    *lifecycle.Service
	categorizer *categorizer.Categorizer
	engine      *engine.Engine
}

// newApp wires storage, the resolver, the lifecycle service, the categorizer
// and the engine. The caller must Close it.
func newApp(ctx context.Context) (*app, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.WarmMerchantCache(ctx); err != nil {
		slog.Warn("Failed to warm merchant cache", "error", err)
	}

	client, timeout := newLLMClient()

	logger := slog.Default()
	banks := resolver.New(store, logger)
	patterns := lifecycle.NewService(store, banks, logger)
	cat := categorizer.New(store, client,
		categorizer.WithTimeout(timeout),
		categorizer.WithLogger(logger),
	)

	eng := engine.NewWithConfig(banks, store, cat, patterns, engine.Config{
		Workers: viper.GetInt("bulk.workers"),
		Logger:  logger,
	})

	return &app{
		store:       store,
		banks:       banks,
		patterns:    patterns,
		categorizer: cat,
		engine:      eng,
	}, nil
}

// Close releases the database.
func (a *app) Close() error {
	return a.store.Close()
}

// newLLMClient returns nil when no API key is configured or the classifier
// settings are unusable; the categorizer then falls back to OTHER for unknown
// merchants.
func newLLMClient() (llm.Client, time.Duration) {
	settings, err := config.LoadLLMConfig()
	if err != nil {
		slog.Warn("LLM classifier misconfigured, categorizing as OTHER", "error", err)
		return nil, config.DefaultLLMTimeout
	}
	if !settings.Enabled() {
		slog.Debug("No LLM API key configured, merchant classification disabled",
			"provider", settings.Client.Provider)
		return nil, settings.Timeout
	}

	client, err := llm.NewClient(settings.Client)
	if err != nil {
		slog.Warn("LLM classifier misconfigured, categorizing as OTHER",
			"provider", settings.Client.Provider,
			"error", err)
		return nil, settings.Timeout
	}
	return client, settings.Timeout
}

func closeApp(a *app) {
	if err := a.Close(); err != nil {
		common.LogError(err, "Failed to close database", common.Fields{"path": config.DatabasePath()})
	}
}

func writeLine(w io.Writer, s string) error {
	if _, err := fmt.Fprintln(w, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
