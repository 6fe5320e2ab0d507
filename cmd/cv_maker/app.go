package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jonathan/cv-maker/internal/config"
	"github.com/jonathan/cv-maker/internal/observability"
	"github.com/jonathan/cv-maker/internal/storage"
	"github.com/jonathan/cv-maker/internal/suggestions"
	"github.com/jonathan/cv-maker/internal/templates"
)

// app bundles what every command that touches persisted state needs.
type app struct {
	cfg         *config.Config
	logger      zerolog.Logger
	suggestions *suggestions.Store
	templates   *templates.Store
	closeKV     func()
}

// loadConfig reads the --config file and applies --log-level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return observability.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}

// openApp loads configuration, opens the storage backend and loads both
// stores from it.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	kv, closeKV, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	sugg := suggestions.NewStore(kv,
		suggestions.WithLogger(observability.Component(logger, "suggestions")),
		suggestions.WithTimeout(cfg.Storage.Timeout),
		suggestions.WithDemoSeed(cfg.Suggestions.SeedDemo),
	)
	sugg.Load(ctx)

	tmpl := templates.NewStore(kv,
		templates.WithLogger(observability.Component(logger, "templates")),
		templates.WithTimeout(cfg.Storage.Timeout),
	)
	tmpl.Load(ctx)

	logger.Debug().
		Str("backend", cfg.Storage.Backend).
		Int("suggestions", sugg.Count()).
		Int("templates", len(tmpl.List())).
		Msg("stores loaded")

	return &app{
		cfg:         cfg,
		logger:      logger,
		suggestions: sugg,
		templates:   tmpl,
		closeKV:     closeKV,
	}, nil
}

func (a *app) Close() {
	a.closeKV()
}
