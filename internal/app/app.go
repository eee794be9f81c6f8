package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/vk/depscope"
	"github.com/vk/depscope/internal/ctxlog"
	"github.com/vk/depscope/internal/manifest"
)

// App encapsulates the inspection run: its output writer, logger,
// registry, and configuration.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *depscope.Registry
	config   *Config
}

// NewApp is the constructor for the application. Data output goes to
// outW; structured logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	return &App{
		outW:     outW,
		logger:   newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		registry: depscope.New(),
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *depscope.Registry {
	return a.registry
}

// Run loads the configured manifests, seeds the registry inside a scope,
// and writes the resulting snapshot to the output writer as indented JSON.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	bindings, err := manifest.Load(ctx, a.config.ManifestPath)
	if err != nil {
		return err
	}
	a.logger.Debug("Manifests loaded.", "bindings", len(bindings))

	// Seeding inside a scope keeps the registry's root view clean: the
	// dump reflects exactly what the manifests declare and nothing more.
	return a.registry.RunInScope(ctx, func(ctx context.Context) error {
		manifest.Seed(ctx, a.registry, bindings)

		var opts []depscope.Option
		if a.config.Namespace != "" {
			opts = append(opts, depscope.InNamespace(a.config.Namespace))
		}
		snapshot := a.registry.Snapshot(ctx, opts...)

		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	})
}

// newLogger builds a slog.Logger in the configured format and level.
func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
