package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/felixgeelhaar/ideas/internal/ideas/application"
	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
	"github.com/felixgeelhaar/ideas/internal/ideas/infrastructure/images"
	"github.com/felixgeelhaar/ideas/internal/ideas/infrastructure/memory"
	"github.com/felixgeelhaar/ideas/internal/ideas/infrastructure/remote"
	"github.com/felixgeelhaar/ideas/pkg/config"
	"github.com/felixgeelhaar/ideas/pkg/observability"
)

// sampleSeed fixes the offline sample so pages stay stable across runs.
const sampleSeed = 2023

// App holds the CLI application dependencies.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
}

var app *App

// SetApp sets the CLI application.
func SetApp(a *App) {
	app = a
}

// NewApp creates the CLI application from configuration.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
	}
}

// sourceOptions selects the listing's data source.
type sourceOptions struct {
	offline  bool
	proxyURL string
}

// newController wires a listing controller to the proxy, or to the offline
// sample when opts.offline is set.
func (a *App) newController(opts sourceOptions, pagination domain.Pagination, logger *slog.Logger) *application.Controller {
	var src domain.DataSource
	if opts.offline {
		src = memory.NewSampleSource(sampleSeed)
	} else {
		proxyURL := opts.proxyURL
		if proxyURL == "" {
			proxyURL = a.Config.ProxyURL
		}
		src = remote.NewClient(remote.ClientConfig{
			BaseURL:      proxyURL,
			Timeout:      a.Config.HTTPTimeout,
			DefaultImage: a.Config.DefaultImage,
			Breaker: remote.BreakerConfig{
				Enabled:          a.Config.BreakerEnabled,
				FailureThreshold: a.Config.BreakerFailures,
				Timeout:          a.Config.BreakerTimeout,
				MaxRequests:      1,
			},
			Logger:  logger,
			Metrics: a.Metrics,
		})
	}

	return application.NewController(application.ControllerConfig{
		Source: src,
		Images: images.NewLoader(images.LoaderConfig{
			DefaultImage: a.Config.DefaultImage,
			BaseDir:      a.Config.ImageDir,
			Logger:       logger,
		}),
		Logger:     logger,
		Metrics:    a.Metrics,
		Pagination: pagination,
	})
}

// fileLogger returns a logger writing to the configured log file, or one
// that discards everything. The TUI owns the terminal, so it never logs to
// stderr.
func (a *App) fileLogger() (*slog.Logger, func(), error) {
	cfg := a.Config
	if cfg.LogFile == "" {
		return observability.LoggerFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, Version, io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	l := observability.LoggerFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, Version, f)
	return l, func() { _ = f.Close() }, nil
}
