package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/appscope/appscope/internal/core/catalog"
	"github.com/appscope/appscope/internal/observability"
	"github.com/appscope/appscope/internal/output"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>...",
	Short: "Look up apps by track id or bundle id",
	Long: `Look up app metadata in batches of up to 200 ids per request.

Examples:
  appscope lookup 553834731
  appscope lookup com.midasplayer.apps.candycrushsaga --id-field bundleId
  appscope lookup --file ids.txt --limit 5 --output json`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().String("file", "", "read ids from file, one per line (- for stdin)")
	lookupCmd.Flags().String("id-field", catalog.IDFieldTrackID, "lookup key: id or bundleId")
	lookupCmd.Flags().String("country", "", "storefront country (default from config)")
	lookupCmd.Flags().String("lang", "", "response language, e.g. en_us")
	lookupCmd.Flags().Int("workers", 0, "concurrent batches (default from config)")
	lookupCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
}

func runLookup(cmd *cobra.Command, args []string) error {
	idsFile, _ := cmd.Flags().GetString("file")
	idField, _ := cmd.Flags().GetString("id-field")
	country, _ := cmd.Flags().GetString("country")
	lang, _ := cmd.Flags().GetString("lang")
	workers, _ := cmd.Flags().GetInt("workers")
	outputFormat, _ := cmd.Flags().GetString("output")

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	ids, err := resolveIDs(args, idsFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	rt, err := openRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close() // nolint:errcheck // best-effort cleanup

	if workers <= 0 {
		workers = rt.cfg.Workers
	}

	apps, err := rt.client.LookupAll(cmd.Context(), ids, catalog.LookupOptions{
		IDField:  idField,
		Country:  country,
		Language: lang,
		Request:  rt.requestOptions(),
	}, workers)
	if err != nil {
		return err
	}

	if logger := observability.Active(); logger != nil {
		logger.Debug("Lookup complete",
			zap.Int("requested", len(ids)),
			zap.Int("returned", len(apps)))
	}

	rendered, err := output.Apps(format, apps)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
