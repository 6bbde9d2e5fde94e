package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/cashscore/internal/buildinfo"
	"github.com/cleared-dev/cashscore/internal/config"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "cashscore",
		Short:   "Cash-flow credit scoring from bank transaction ledgers",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", config.FileName, "path to cashscore.yaml")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(),
		newSignalsCommand(g),
		newScoreCommand(g),
		newShowCommand(g),
	)

	return rootCmd
}
