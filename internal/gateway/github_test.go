package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/commit-streaks/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}

	return gateway, server
}

func TestGitHubGateway_FetchCommits(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       []domain.Commit
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - successfully fetches commits",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "/search/commits")
				assert.Equal(t, "author:octocat author-date:2024-01-01..*", r.URL.Query().Get("q"))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"total_count": 1, "items": [{
					"sha": "0123456789abcdef",
					"author": {"login": "octocat"},
					"repository": {"full_name": "org/repo-a"},
					"commit": {"message": "Fix toggle", "author": {"date": "2024-05-01T10:00:00Z"}}
				}]}`)
			},
			expected: []domain.Commit{{
				SHA:        "0123456789abcdef",
				Author:     "octocat",
				RepoName:   "org/repo-a",
				Message:    "Fix toggle",
				AuthorDate: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
			}},
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to search commits with REST API",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()
			commits, err := gateway.FetchCommits(context.Background(), "octocat", " author-date:2024-01-01..*")
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				return
			}
			require.NoError(t, err)
			require.Len(t, commits, len(tc.expected))
			for i := range commits {
				assert.Equal(t, tc.expected[i].SHA, commits[i].SHA)
				assert.Equal(t, tc.expected[i].Author, commits[i].Author)
				assert.Equal(t, tc.expected[i].RepoName, commits[i].RepoName)
				assert.Equal(t, tc.expected[i].Message, commits[i].Message)
				assert.True(t, tc.expected[i].AuthorDate.Equal(commits[i].AuthorDate))
			}
		})
	}
}

func TestGitHubGateway_FetchCommitStats(t *testing.T) {
	testCases := []struct {
		name           string
		repoName       string
		queryContains  string
		responseBody   string
		expected       CommitStats
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:          "happy path",
			repoName:      "org/repo-a",
			queryContains: "0123456789abcdef",
			responseBody:  `{"data":{"repository":{"object":{"additions":12,"deletions":3}}}}`,
			expected:      CommitStats{Additions: 12, Deletions: 3},
		},
		{
			name:           "GraphQL error",
			repoName:       "org/repo-a",
			queryContains:  "repo-a",
			responseBody:   `{"errors":[{"message":"Could not resolve to a Repository"}]}`,
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query for commit stats",
		},
		{
			name:           "malformed repository name",
			repoName:       "no-owner",
			expectError:    true,
			expectedErrMsg: "invalid repository name",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), tc.queryContains)

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			stats, err := gateway.FetchCommitStats(context.Background(), tc.repoName, "0123456789abcdef")

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, stats)
		})
	}
}

func TestReadCommitsFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "commits.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"sha":"abc","author":"octocat","repo_name":"org/a","message":"m","author_date":"2024-05-01T10:00:00Z","additions":3,"deletions":1}
	]`), 0o600))
	yamlPath := filepath.Join(dir, "commits.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
- sha: def
  author: octocat
  repo_name: org/b
  message: m
  author_date: 2024-05-02T10:00:00Z
  additions: 5
  deletions: 2
`), 0o600))
	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{not json`), 0o600))

	testCases := []struct {
		name        string
		path        string
		expectedSHA string
		expectedAdd int
		expectError bool
	}{
		{name: "json", path: jsonPath, expectedSHA: "abc", expectedAdd: 3},
		{name: "yaml", path: yamlPath, expectedSHA: "def", expectedAdd: 5},
		{name: "malformed", path: badPath, expectError: true},
		{name: "missing", path: filepath.Join(dir, "missing.json"), expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			commits, err := ReadCommitsFile(tc.path)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, commits, 1)
			assert.Equal(t, tc.expectedSHA, commits[0].SHA)
			assert.Equal(t, tc.expectedAdd, commits[0].Additions)
			assert.False(t, commits[0].AuthorDate.IsZero())
		})
	}
}
