package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/appscope/appscope/internal/config"
	errwrap "github.com/appscope/appscope/internal/errors"
	"github.com/appscope/appscope/internal/metrics"
	"github.com/appscope/appscope/internal/observability"
	"github.com/appscope/appscope/internal/server"
	"github.com/appscope/appscope/internal/server/handlers"
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// rateWindowHealthChecker reads the limiter's window; for the redis backend
// this is a round trip to Redis.
type rateWindowHealthChecker struct {
	rt *runtime
}

func (c rateWindowHealthChecker) CheckHealth(ctx context.Context) error {
	if c.rt.redis != nil {
		if err := c.rt.redis.Ping(ctx); err != nil {
			return errwrap.WrapExternalService(ctx, err, "redis rate window unreachable")
		}
	}
	_, err := c.rt.limiter.Snapshot(ctx)
	return err
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API with graceful shutdown support.

Endpoints:
  GET /v1/apps?ids=...           batched lookup
  GET /v1/apps/{id}/privacy      privacy disclosure
  GET /health, /version, /metrics

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (takes effect for logging level only)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().Float64("inbound-rps", 0, "API requests per second before 429 (0 = unlimited)")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.inbound_rps", serveCmd.Flags().Lookup("inbound-rps"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	observability.InitServerLogger(config.AppName, cfg.Logging.Level)
	logger := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(config.AppName, cfg.Metrics.Port); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}
	}
	metrics.SetServerStartTime(time.Now().Unix())

	rt, err := openRuntime(cmd.Context())
	if err != nil {
		return err
	}

	hm := handlers.NewHealthManager(versionInfo.Version)
	if cfg.Metrics.Enabled {
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
	}
	hm.RegisterChecker("rate_window", rateWindowHealthChecker{rt: rt})

	srv := server.New(server.Options{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		InboundRPS:   cfg.Server.InboundRPS,
		InboundBurst: cfg.Server.InboundBurst,
		AdminToken:   os.Getenv(config.EnvPrefix + "_ADMIN_TOKEN"),
		Health:       hm,
		Apps: &handlers.AppsHandler{
			Catalog: rt.client,
			Limit:   rt.limit(),
			Workers: cfg.Workers,
		},
	})

	logger.Info("Initializing server",
		zap.String("version", versionInfo.Version),
		zap.String("addr", srv.Addr()),
		zap.String("rate_backend", cfg.RateLimit.Backend),
		zap.Int("outbound_limit", rt.limit()),
		zap.Int("metrics_port", observability.GetMetricsPort()))

	// Shutdown handlers run LIFO.
	signals.OnShutdown(func(ctx context.Context) error {
		if err := logger.Sync(); err != nil {
			logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})

	signals.OnShutdown(func(ctx context.Context) error {
		if err := rt.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
		return nil
	})

	signals.OnShutdown(func(ctx context.Context) error {
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errwrap.WrapInternal(ctx, err, "server shutdown failed")
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	signals.OnReload(func(ctx context.Context) error {
		logger.Info("Received SIGHUP: attempting config reload")

		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				logger.Info("No config file found - using defaults and environment variables")
				return nil
			}
			logger.Error("Failed to reload config file",
				zap.String("file", viper.ConfigFileUsed()),
				zap.Error(err))
			return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
		}

		reloaded, err := config.Load(viper.GetViper())
		if err != nil {
			return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
		}
		if reloaded.Logging.Level != cfg.Logging.Level {
			observability.InitServerLogger(config.AppName, reloaded.Logging.Level)
			logger = observability.ServerLogger
		}

		logger.Info("Configuration reloaded",
			zap.String("file", viper.ConfigFileUsed()),
			zap.String("log_level", reloaded.Logging.Level))
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	go func() {
		if err := signals.Listen(cmd.Context()); err != nil {
			logger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	if err := <-errChan; err != nil {
		return errwrap.WrapInternal(cmd.Context(), err, "server error")
	}
	return nil
}
