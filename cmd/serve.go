// -- cmd/serve.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"browseragent/internal/agent"
	"browseragent/internal/config"
	"browseragent/internal/device"
	"browseragent/internal/observability"
	"browseragent/internal/provider"
	"browseragent/internal/server"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agent's HTTP API",
	Long: `Starts the browsing device, activates the default AI provider, and
serves the command API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfigFromViper(viper.GetViper())
		if err != nil {
			return err
		}
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *config.Config) error {
	logger := observability.GetLogger()
	defer observability.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Screenshots are served from under the static dir; make sure the
	// configured directory exists.
	if err := os.MkdirAll(cfg.Browser.ScreenshotDir, 0o755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	dev := device.New(ctx, cfg.Browser, logger)
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn("Failed to close browsing device", zap.Error(err))
		}
	}()

	registry := provider.NewRegistry(cfg.AI, logger)
	a := agent.New(cfg, logger, dev, registry)
	if err := a.InitProvider(cfg.AI.DefaultProvider); err != nil {
		// The agent still serves; commands report the missing provider.
		logger.Warn("Default AI provider could not be initialized",
			zap.String("provider", cfg.AI.DefaultProvider), zap.Error(err))
	}

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler: server.New(cfg, logger, a).Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}
