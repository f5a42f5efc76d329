// Package app provides the entry point for the blueprint-discovery tool.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nimscan/blueprint-discovery/internal/versions"
)

// NewRootCmd creates a new root command for the discovery tool.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "blueprint-discovery",
		DisableAutoGenTag: true,
		Short:             "Discover blueprint source repositories on NGC",
		Long: `blueprint-discovery walks the NGC blueprint catalog, resolves every published
blueprint to its GitHub source repository and generates the repos.yaml
configuration consumed by the nim-usage-scanner.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		slog.Error("Error binding debug flag", "error", err)
	}

	// Add subcommands
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				slog.Error("Error retrieving format flag", "error", err)
				return
			}

			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					slog.Error("Error formatting version info as JSON", "error", err)
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
			} else {
				slog.Info("blueprint-discovery version",
					"version", info.Version,
					"commit", info.Commit,
					"built", info.BuildDate,
					"go", info.GoVersion,
					"platform", info.Platform)
			}
		},
	}

	versionCmd.Flags().String("format", "", "Output format (json)")

	return versionCmd
}
