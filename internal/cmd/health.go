package cmd

import (
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/appscope/appscope/internal/errors"
	"github.com/appscope/appscope/internal/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long:  "Verify version info, configuration and the rate limit backend (pings Redis when configured).",
	Run: func(cmd *cobra.Command, args []string) {
		logger := observability.CLILogger
		if logger == nil {
			ExitWithCodeStderr(foundry.ExitConfigInvalid, "Logger not initialized", errwrap.NewConfigInvalidError("Logger not initialized"))
			return
		}
		logger.Info("Running health check...")

		if versionInfo.Version == "" {
			ExitWithCode(logger, foundry.ExitConfigInvalid, "Version information missing", errwrap.NewConfigInvalidError("Version information missing"))
			return
		}
		logger.Info("✅ Version information available", zap.String("version", versionInfo.Version))

		cfg, err := loadedConfig()
		if err != nil {
			ExitWithCode(logger, foundry.ExitConfigInvalid, "Configuration not loaded", err)
			return
		}
		logger.Info("✅ Configuration loaded",
			zap.String("lookup_url", cfg.Catalog.LookupURL),
			zap.Int("limit", cfg.RateLimit.RequestsPerSecond))

		rt, err := openRuntime(cmd.Context())
		if err != nil {
			ExitWithCode(logger, foundry.ExitExternalServiceUnavailable, "Rate limit backend unavailable", err)
			return
		}
		defer rt.Close() // nolint:errcheck // best-effort cleanup

		if _, err := rt.limiter.Snapshot(cmd.Context()); err != nil {
			ExitWithCode(logger, foundry.ExitExternalServiceUnavailable, "Rate window unreadable", err)
			return
		}
		logger.Info("✅ Rate limit backend ready", zap.String("backend", cfg.RateLimit.Backend))

		logger.Info("✅ All health checks passed")
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
