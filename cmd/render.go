package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/naka-gawa/commit-streaks/internal/collapse"
	"github.com/naka-gawa/commit-streaks/internal/config"
	"github.com/naka-gawa/commit-streaks/internal/domain"
	"github.com/naka-gawa/commit-streaks/internal/gateway"
	"github.com/naka-gawa/commit-streaks/internal/page"
	"github.com/naka-gawa/commit-streaks/internal/usecase"
	"github.com/naka-gawa/commit-streaks/internal/widget"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders a commit group page as HTML or JSON",
	Long: `Collects commits for one or more GitHub users (or reads them from a
JSON/YAML file), groups them by day and repository, and writes the group
page with its badges, day labels and initial collapse state applied.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := setup(cmd)

		var opts renderOptions
		opts.commitsFile, _ = cmd.Flags().GetString("commits")
		opts.users, _ = cmd.Flags().GetStringSlice("user")
		opts.from, _ = cmd.Flags().GetString("from")
		opts.to, _ = cmd.Flags().GetString("to")
		opts.groupID, _ = cmd.Flags().GetInt("group-id")
		opts.format, _ = cmd.Flags().GetString("format")
		opts.outPath, _ = cmd.Flags().GetString("out")

		if err := runRender(context.Background(), cfg, logger, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

type renderOptions struct {
	commitsFile string
	users       []string
	from        string
	to          string
	groupID     int
	format      string
	outPath     string
}

func runRender(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts renderOptions) (err error) {
	if opts.format != "html" && opts.format != "json" {
		return fmt.Errorf("invalid --format %q, use html or json", opts.format)
	}
	if opts.commitsFile == "" && len(opts.users) == 0 {
		return errors.New("either --commits or --user is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	days, err := loadDays(ctx, cfg, logger, loc, opts)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		out = f
	}

	if opts.format == "json" {
		jsonData, err := json.MarshalIndent(days, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(jsonData))
		return err
	}

	formatter := widget.NewFormatter(cfg.UI, logger).WithClock(func() time.Time { return time.Now().In(loc) })
	controller := collapse.NewController(cfg.UI, logger)
	view := page.View{GroupID: opts.groupID, BaseURL: cfg.BaseURL, Days: days}
	doc, err := page.Build(view, formatter, controller)
	if doc == nil {
		return err
	}
	if err != nil {
		logger.WithError(err).Warn("some day labels could not be rendered")
	}
	if err := page.WriteHTML(out, doc); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"days": len(days), "group": opts.groupID}).Info("Rendered group page.")
	return nil
}

// loadDays reads the commits file when one is given, and collects from
// GitHub otherwise.
func loadDays(ctx context.Context, cfg *config.Config, logger *logrus.Logger, loc *time.Location, opts renderOptions) ([]domain.DayGroup, error) {
	if opts.commitsFile != "" {
		commits, err := gateway.ReadCommitsFile(opts.commitsFile)
		if err != nil {
			return nil, err
		}
		return domain.GroupByDay(commits, loc), nil
	}

	dateRange, err := authorDateRange(opts.from, opts.to)
	if err != nil {
		return nil, err
	}
	if cfg.GitHub.Token == "" {
		return nil, errors.New("GITHUB_TOKEN environment variable is not set")
	}
	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	collector := usecase.NewCollector(githubGateway, logger, loc, cfg.GitHub.StatsConcurrency)
	days, err := collector.Collect(ctx, opts.users, dateRange)
	if err != nil {
		return nil, fmt.Errorf("failed to collect commits: %w", err)
	}
	return days, nil
}

// authorDateRange turns the YYYY/MM/DD flags into a commit search
// qualifier. Either bound may be open.
func authorDateRange(fromStr, toStr string) (string, error) {
	if fromStr == "" && toStr == "" {
		return "", nil
	}
	const inputDateLayout = "2006/01/02"
	fromQuery := "*"
	if fromStr != "" {
		fromTime, err := time.Parse(inputDateLayout, fromStr)
		if err != nil {
			return "", fmt.Errorf("invalid --from date format, please use YYYY/MM/DD: %w", err)
		}
		fromQuery = fromTime.Format(domain.DateLayout)
	}
	toQuery := "*"
	if toStr != "" {
		toTime, err := time.Parse(inputDateLayout, toStr)
		if err != nil {
			return "", fmt.Errorf("invalid --to date format, please use YYYY/MM/DD: %w", err)
		}
		toQuery = toTime.Format(domain.DateLayout)
	}
	// The leading space lets the range be appended to the author query.
	return fmt.Sprintf(" author-date:%s..%s", fromQuery, toQuery), nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("commits", "", "Read commits from a JSON or YAML file instead of GitHub")
	renderCmd.Flags().StringSliceP("user", "u", nil, "GitHub user names whose commits are collected")
	renderCmd.Flags().String("from", "", "Start date for commits (YYYY/MM/DD)")
	renderCmd.Flags().String("to", "", "End date for commits (YYYY/MM/DD)")
	renderCmd.Flags().Int("group-id", 0, "Numeric id of the group the page belongs to")
	renderCmd.Flags().String("format", "html", "Output format: html or json")
	renderCmd.Flags().StringP("out", "o", "", "Write the output to a file instead of stdout")
}
