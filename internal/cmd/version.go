package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appscope/appscope/internal/config"
	"github.com/appscope/appscope/internal/output"
	"github.com/appscope/appscope/internal/server/handlers"
)

var extended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for Go, Gofulmen and Crucible versions, or --output json|yaml for the full structure.",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, _ := cmd.Flags().GetString("output")
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		info := handlers.CurrentVersion()
		out := cmd.OutOrStdout()

		if format != output.FormatTable {
			rendered, err := output.Encode(format, info)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, rendered)
			return err
		}

		fmt.Fprintf(out, "%s %s\n", config.AppName, versionInfo.Version)
		if extended {
			fmt.Fprintf(out, "Commit: %s\n", versionInfo.Commit)
			fmt.Fprintf(out, "Built: %s\n", versionInfo.BuildDate)
			fmt.Fprintf(out, "Go: %s\n", info.App.GoVersion)
			fmt.Fprintf(out, "Config: %s\n", config.DefaultConfigPath())
			fmt.Fprintf(out, "\n")
			fmt.Fprintf(out, "Gofulmen: %s\n", info.Dependencies.Gofulmen)
			fmt.Fprintf(out, "Crucible: %s\n", info.Dependencies.Crucible)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&extended, "extended", "e", false, "show extended version information")
	versionCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
}
