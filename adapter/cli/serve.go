package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/ideas/adapter/api"
	"github.com/felixgeelhaar/ideas/internal/ideas/infrastructure/upstream"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ideas query proxy",
	Long: `Run the HTTP proxy that forwards GET /api/ideas to the content API.

The proxy answers with the upstream body unchanged, or 500 {"error": ...}
when the upstream call fails.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default $PORT or 3001)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if app == nil {
		return errors.New("application not initialized")
	}
	cfg := app.Config

	addr := cfg.ListenAddr()
	if servePort != "" {
		addr = ":" + servePort
	}

	forwarder := upstream.NewForwarder(upstream.ForwarderConfig{
		BaseURL: cfg.UpstreamURL,
		Timeout: cfg.HTTPTimeout,
		Logger:  app.Logger,
		Metrics: app.Metrics,
	})
	handler := api.NewIdeasHandler(api.IdeasHandlerConfig{
		Forwarder: forwarder,
		Logger:    app.Logger,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = addr
	serverCfg.ReadTimeout = cfg.ReadTimeout
	serverCfg.WriteTimeout = cfg.WriteTimeout
	server := api.NewServer(serverCfg, handler, app.Metrics, app.Logger)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("proxy server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	app.Logger.Info("proxy ready", "addr", addr, "upstream", cfg.UpstreamURL)
	return g.Wait()
}
