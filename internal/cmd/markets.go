package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appscope/appscope/internal/core"
	"github.com/appscope/appscope/internal/output"
)

var marketsCmd = &cobra.Command{
	Use:   "markets [country]...",
	Short: "List storefront ids by country code",
	Long:  "List App Store storefront ids. With arguments, resolve only those country codes (unknown codes resolve to the US storefront).",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, _ := cmd.Flags().GetString("output")
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		codes := args
		if len(codes) == 0 {
			codes = core.MarketCodes()
		}
		markets := make([]output.Market, 0, len(codes))
		for _, code := range codes {
			markets = append(markets, output.Market{Code: code, StoreID: core.StoreID(code)})
		}

		rendered, err := output.Markets(format, markets)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return err
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List top-level App Store categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, _ := cmd.Flags().GetString("output")
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		rendered, err := output.Categories(format, core.Categories())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return err
	},
}

func init() {
	rootCmd.AddCommand(marketsCmd)
	rootCmd.AddCommand(categoriesCmd)

	marketsCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
	categoriesCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
}
