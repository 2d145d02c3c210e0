package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/naka-gawa/commit-streaks/internal/domain"
	"github.com/naka-gawa/commit-streaks/internal/gateway"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchCommits(ctx context.Context, user, dateRange string) ([]domain.Commit, error) {
	args := m.Called(ctx, user, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockFetcher) FetchCommitStats(ctx context.Context, repoName, sha string) (gateway.CommitStats, error) {
	args := m.Called(ctx, repoName, sha)
	return args.Get(0).(gateway.CommitStats), args.Error(1)
}

func commitAt(sha, author, repo, ts string) domain.Commit {
	t, _ := time.Parse(time.RFC3339, ts)
	return domain.Commit{SHA: sha, Author: author, RepoName: repo, AuthorDate: t}
}

func TestCollector_Collect(t *testing.T) {
	testCases := []struct {
		name          string
		commits       map[string][]domain.Commit
		commitErrs    map[string]error
		stats         map[string]gateway.CommitStats
		statsErr      error
		expectedDates []string
		expectedAdds  []int
		expectError   bool
	}{
		{
			name: "happy path - merges users and groups by day",
			commits: map[string][]domain.Commit{
				"alice": {
					commitAt("a1", "alice", "org/a", "2024-05-02T10:00:00Z"),
					commitAt("a2", "alice", "org/a", "2024-05-01T10:00:00Z"),
				},
				"bob": {
					commitAt("b1", "Bob", "org/b", "2024-05-02T12:00:00Z"),
				},
			},
			stats: map[string]gateway.CommitStats{
				"a1": {Additions: 1, Deletions: 1},
				"a2": {Additions: 2},
				"b1": {Additions: 4, Deletions: 2},
			},
			expectedDates: []string{"2024-05-02", "2024-05-01"},
			expectedAdds:  []int{5, 2},
		},
		{
			name: "commits by other authors and duplicates are dropped",
			commits: map[string][]domain.Commit{
				"alice": {
					commitAt("a1", "alice", "org/a", "2024-05-02T10:00:00Z"),
					commitAt("x1", "mallory", "org/a", "2024-05-02T11:00:00Z"),
					commitAt("a1", "alice", "org/a", "2024-05-02T10:00:00Z"),
				},
				"bob": {},
			},
			stats: map[string]gateway.CommitStats{
				"a1": {Additions: 3},
			},
			expectedDates: []string{"2024-05-02"},
			expectedAdds:  []int{3},
		},
		{
			name:        "error case - fetch commits fails",
			commits:     map[string][]domain.Commit{"alice": nil, "bob": {}},
			commitErrs:  map[string]error{"alice": errors.New("github api error")},
			expectError: true,
		},
		{
			name: "error case - stats lookup fails",
			commits: map[string][]domain.Commit{
				"alice": {commitAt("a1", "alice", "org/a", "2024-05-02T10:00:00Z")},
			},
			statsErr:    errors.New("graphql error"),
			expectError: true,
		},
		{
			name:    "empty case - nobody committed",
			commits: map[string][]domain.Commit{"alice": {}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger := logrus.New()
			logger.SetOutput(io.Discard)
			fetcher := new(mockFetcher)

			var users []string
			for user, commits := range tc.commits {
				users = append(users, user)
				fetcher.On("FetchCommits", mock.Anything, user, "any-range").Return(commits, tc.commitErrs[user]).Maybe()
			}
			if tc.statsErr != nil {
				fetcher.On("FetchCommitStats", mock.Anything, mock.Anything, mock.Anything).Return(gateway.CommitStats{}, tc.statsErr)
			}
			for sha, stats := range tc.stats {
				fetcher.On("FetchCommitStats", mock.Anything, mock.Anything, sha).Return(stats, nil)
			}

			collector := NewCollector(fetcher, logger, time.UTC, 2)

			days, err := collector.Collect(context.Background(), users, "any-range")

			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, days)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, days, len(tc.expectedDates))
			for i, day := range days {
				assert.Equal(t, tc.expectedDates[i], day.Date)
				assert.Equal(t, tc.expectedAdds[i], day.Additions)
			}
			fetcher.AssertExpectations(t)
		})
	}
}
