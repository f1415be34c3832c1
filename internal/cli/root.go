// Package cli provides the command-line interface for gristpages.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/cli/commands"
	"github.com/gwhthompson/grist-mcp-server-sub005/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gristpages",
		Short: "Declarative page layouts for Grist documents",
		Long: `gristpages compiles declarative layout trees into Grist pages.

Describe a page as a JSON tree of new and existing widgets with optional
links between them, and gristpages creates the widgets, arranges them,
and wires the links through the Grist API.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cmd.SetContext(config.WithContext(cmd.Context(), cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./grist.yaml)")
	rootCmd.PersistentFlags().String("api-key", "", "Grist API key")
	rootCmd.PersistentFlags().String("base-url", "", "Grist server URL (default: "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().String("doc-id", "", "Grist document id")
	rootCmd.PersistentFlags().Int("timeout", 0, "HTTP timeout in seconds")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewCreateCommand())
	rootCmd.AddCommand(commands.NewSetLayoutCommand())
	rootCmd.AddCommand(commands.NewGetLayoutCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
