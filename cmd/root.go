// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/naka-gawa/commit-streaks/internal/config"
	"github.com/naka-gawa/commit-streaks/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "commit-streaks",
	Short: "A CLI tool to render and browse daily commit streaks.",
	Long: `commit-streaks collects the commits of a group of GitHub users and
renders them as a page grouped by day and repository, with per-day
change badges and relative day labels. Rendered pages can be browsed
in the terminal, where days and repositories expand and collapse.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a commit-streaks.toml config file")
}

// setup loads the configuration and builds the logger every command uses.
// The --verbose flag wins over the config file.
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.UI.VerboseLogging = true
	}
	return cfg, logging.New(cfg.UI, os.Stderr)
}
