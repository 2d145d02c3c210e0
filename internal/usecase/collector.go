// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/naka-gawa/commit-streaks/internal/domain"
	"github.com/naka-gawa/commit-streaks/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Collector is the use case for collecting a group's commit activity.
// It orchestrates fetching commits per member, filling in their stats and
// grouping them by day.
type Collector struct {
	fetcher          gateway.Fetcher
	logger           logrus.FieldLogger
	loc              *time.Location
	statsConcurrency int
}

// NewCollector creates a new Collector instance. Days are cut in loc and
// at most statsConcurrency stats lookups run at once.
func NewCollector(fetcher gateway.Fetcher, logger logrus.FieldLogger, loc *time.Location, statsConcurrency int) *Collector {
	if statsConcurrency < 1 {
		statsConcurrency = 1
	}
	return &Collector{
		fetcher:          fetcher,
		logger:           logger,
		loc:              loc,
		statsConcurrency: statsConcurrency,
	}
}

// Collect fetches the commits of every user concurrently and returns them
// grouped by day, newest first. Commits are de-duplicated by SHA, and a
// commit is only kept for the user who authored it.
func (c *Collector) Collect(ctx context.Context, users []string, dateRange string) ([]domain.DayGroup, error) {
	c.logger.WithField("users", len(users)).Debug("Usecase: Starting commit collection...")

	var mu sync.Mutex
	seen := make(map[string]bool)
	var commits []domain.Commit

	eg, egCtx := errgroup.WithContext(ctx)
	for _, user := range users {
		eg.Go(func() error {
			fetched, err := c.fetcher.FetchCommits(egCtx, user, dateRange)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, commit := range fetched {
				if !strings.EqualFold(commit.Author, user) || seen[commit.SHA] {
					continue
				}
				seen[commit.SHA] = true
				commits = append(commits, commit)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	c.logger.WithField("commits", len(commits)).Debug("Usecase: All commits fetched successfully.")

	if err := c.fillStats(ctx, commits); err != nil {
		return nil, err
	}

	days := domain.GroupByDay(commits, c.loc)
	c.logger.WithField("days", len(days)).Debug("Usecase: Collection complete.")
	return days, nil
}

// fillStats looks up additions and deletions for every commit in place.
func (c *Collector) fillStats(ctx context.Context, commits []domain.Commit) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.statsConcurrency)
	for i := range commits {
		eg.Go(func() error {
			stats, err := c.fetcher.FetchCommitStats(egCtx, commits[i].RepoName, commits[i].SHA)
			if err != nil {
				return err
			}
			commits[i].Additions = stats.Additions
			commits[i].Deletions = stats.Deletions
			return nil
		})
	}
	return eg.Wait()
}
