package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/appscope/appscope/internal/core/catalog"
	"github.com/appscope/appscope/internal/output"
)

var tokenCmd = &cobra.Command{
	Use:   "token <app-id>",
	Short: "Discover the storefront bearer token",
	Long:  "Run token discovery (storefront page, then script bundle) and print the token with its unverified claims.",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("country", "", "storefront country (default US)")
	tokenCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
}

func runToken(cmd *cobra.Command, args []string) error {
	country, _ := cmd.Flags().GetString("country")
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

	token, err := rt.client.DiscoverToken(cmd.Context(), args[0], catalog.TokenOptions{
		Country: country,
		Request: rt.requestOptions(),
	})
	if err != nil {
		return err
	}

	rendered, err := output.Token(format, newTokenReport(rt.client, args[0], country, token))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// newTokenReport describes a discovered token with the country the client
// actually requested.
func newTokenReport(client *catalog.Client, appID, country, token string) output.TokenReport {
	report := output.TokenReport{
		AppID:   strings.TrimSpace(appID),
		Country: client.PrivacyCountry(country),
		Token:   token,
	}
	if info, ok := catalog.InspectToken(token); ok {
		report.Issuer = info.Issuer
		if !info.ExpiresAt.IsZero() {
			report.ExpiresAt = info.ExpiresAt.UTC().Format(time.RFC3339)
		}
	}
	return report
}
