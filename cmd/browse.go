package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/naka-gawa/commit-streaks/internal/collapse"
	"github.com/naka-gawa/commit-streaks/internal/config"
	"github.com/naka-gawa/commit-streaks/internal/page"
	"github.com/naka-gawa/commit-streaks/internal/refresh"
	"github.com/naka-gawa/commit-streaks/internal/viewer"
	"github.com/naka-gawa/commit-streaks/internal/widget"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const browseLogFile = "commit-streaks-debug.log"

var browseCmd = &cobra.Command{
	Use:   "browse <page-url-or-file>",
	Short: "Browses a rendered group page in the terminal",
	Long: `Opens a rendered group page, from a URL or a local file, in an
interactive terminal view. Days and repositories expand and collapse
with enter, and r asks the server to refresh the group and reloads it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := setup(cmd)
		if err := runBrowse(cfg, logger, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runBrowse(cfg *config.Config, logger *logrus.Logger, src string) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	httpClient := &http.Client{Timeout: cfg.Refresh.Timeout}
	model := viewer.NewModel(
		src,
		page.NewLoader(httpClient),
		refresh.NewClient(httpClient, logger),
		widget.NewFormatter(cfg.UI, logger).WithClock(func() time.Time { return time.Now().In(loc) }),
		collapse.NewController(cfg.UI, logger),
		logger,
	)

	// Log lines would tear the full screen view, so they go to a file
	// when verbose and are discarded otherwise.
	logger.SetOutput(io.Discard)
	if cfg.UI.VerboseLogging {
		f, err := os.OpenFile(browseLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
