// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/commit-streaks/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// CommitStats holds the line counts of a single commit.
type CommitStats struct {
	Additions int
	Deletions int
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchCommits returns the commits authored by user. Additions and
	// deletions are left at zero; see FetchCommitStats.
	FetchCommits(ctx context.Context, user, dateRange string) ([]domain.Commit, error)
	FetchCommitStats(ctx context.Context, repoName, sha string) (CommitStats, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        logrus.FieldLogger
}

// commitStatsQuery looks up the line counts of one commit.
type commitStatsQuery struct {
	Repository struct {
		Object struct {
			Commit struct {
				Additions int
				Deletions int
			} `graphql:"... on Commit"`
		} `graphql:"object(oid: $oid)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger logrus.FieldLogger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) FetchCommits(ctx context.Context, user, dateRange string) ([]domain.Commit, error) {
	g.logger.WithField("user", user).Debug("Fetching commits using REST API...")
	query := fmt.Sprintf("author:%s%s", user, dateRange)
	opts := &github.SearchOptions{
		Sort:        "author-date",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var commits []domain.Commit
	for {
		result, resp, err := g.restClient.Search.Commits(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search commits with REST API: %w", err)
		}
		for _, rc := range result.Commits {
			commits = append(commits, domain.Commit{
				SHA:        rc.GetSHA(),
				Author:     rc.GetAuthor().GetLogin(),
				RepoName:   rc.GetRepository().GetFullName(),
				Message:    rc.GetCommit().GetMessage(),
				AuthorDate: rc.GetCommit().GetAuthor().GetDate().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.WithField("page", resp.NextPage).Debug("Fetching next page of commits...")
	}
	g.logger.WithFields(logrus.Fields{"user": user, "commits": len(commits)}).Debug("Completed fetching commit data.")
	return commits, nil
}

// FetchCommitStats fetches the additions and deletions of one commit with GraphQL.
func (g *GitHubGateway) FetchCommitStats(ctx context.Context, repoName, sha string) (CommitStats, error) {
	owner, name, ok := strings.Cut(repoName, "/")
	if !ok || owner == "" || name == "" {
		return CommitStats{}, fmt.Errorf("failed to fetch commit stats: invalid repository name %q", repoName)
	}
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
		"oid":   githubv4.GitObjectID(sha),
	}
	var q commitStatsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return CommitStats{}, fmt.Errorf("failed to execute GraphQL query for commit stats: %w", err)
	}
	return CommitStats{
		Additions: q.Repository.Object.Commit.Additions,
		Deletions: q.Repository.Object.Commit.Deletions,
	}, nil
}
