package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appscope/appscope/internal/config"
	"github.com/appscope/appscope/internal/output"
)

var rateLimitCmd = &cobra.Command{
	Use:     "ratelimit",
	Aliases: []string{"rate-limit"},
	Short:   "Inspect the outbound rate window",
}

var rateLimitStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show requests admitted in the trailing second",
	Long: `Show the configured ceiling and the requests admitted in the trailing
one-second window. The memory backend lives in this process only, so the
window is empty unless the backend is redis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, _ := cmd.Flags().GetString("output")
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close() // nolint:errcheck // best-effort cleanup

		state, err := rt.limiter.Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		rendered, err := output.RateWindow(format, output.NewRateReport(rt.cfg.RateLimit.Backend, rt.limit(), state))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return err
	},
}

var rateLimitResetYes bool

var rateLimitResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the shared Redis rate window",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !rateLimitResetYes {
			return errors.New("reset requires --yes")
		}

		rt, err := openRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close() // nolint:errcheck // best-effort cleanup

		if rt.redis == nil {
			return fmt.Errorf("reset applies to the %s backend only", config.BackendRedis)
		}
		if err := rt.redis.Reset(cmd.Context()); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "rate window cleared")
		return err
	},
}

func init() {
	rateLimitCmd.AddCommand(rateLimitStatusCmd)
	rateLimitCmd.AddCommand(rateLimitResetCmd)
	rootCmd.AddCommand(rateLimitCmd)

	rateLimitStatusCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetYes, "yes", false, "confirm the reset")
}
