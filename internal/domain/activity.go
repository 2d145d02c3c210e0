// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used for day groups and day labels.
const DateLayout = "2006-01-02"

// Commit is a single commit as displayed in a repo group.
type Commit struct {
	SHA        string    `json:"sha" yaml:"sha"`
	Author     string    `json:"author" yaml:"author"`
	RepoName   string    `json:"repo_name" yaml:"repo_name"`
	Message    string    `json:"message" yaml:"message"`
	AuthorDate time.Time `json:"author_date" yaml:"author_date"`
	Additions  int       `json:"additions" yaml:"additions"`
	Deletions  int       `json:"deletions" yaml:"deletions"`
}

// ShortSHA returns the abbreviated form of the commit hash.
func (c Commit) ShortSHA() string {
	if len(c.SHA) < 8 {
		return c.SHA
	}
	return c.SHA[:8]
}

// Title returns the first line of the commit message.
func (c Commit) Title() string {
	return strings.SplitN(c.Message, "\n", 2)[0]
}

// RepoGroup holds the commits made to one repository on one day.
type RepoGroup struct {
	Name      string   `json:"name"`
	Additions int      `json:"additions"`
	Deletions int      `json:"deletions"`
	Commits   []Commit `json:"commits"`
}

// DayGroup holds all commit activity for one calendar day.
type DayGroup struct {
	Date      string      `json:"date"`
	Additions int         `json:"additions"`
	Deletions int         `json:"deletions"`
	Repos     []RepoGroup `json:"repos"`
}

// CommitCount returns the number of commits across all repos of the day.
func (d DayGroup) CommitCount() int {
	var n int
	for _, r := range d.Repos {
		n += len(r.Commits)
	}
	return n
}

// GroupByRepo groups commits by repository. Commits inside a group are
// newest first, and groups are ordered by their newest commit.
func GroupByRepo(commits []Commit) []RepoGroup {
	byName := make(map[string]*RepoGroup)
	for _, c := range commits {
		rg, ok := byName[c.RepoName]
		if !ok {
			rg = &RepoGroup{Name: c.RepoName}
			byName[c.RepoName] = rg
		}
		rg.Additions += c.Additions
		rg.Deletions += c.Deletions
		rg.Commits = append(rg.Commits, c)
	}

	groups := make([]RepoGroup, 0, len(byName))
	for _, rg := range byName {
		sortNewestFirst(rg.Commits)
		groups = append(groups, *rg)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Commits[0].AuthorDate, groups[j].Commits[0].AuthorDate
		if a.Equal(b) {
			return groups[i].Name < groups[j].Name
		}
		return a.After(b)
	})
	return groups
}

// GroupByDay buckets commits by calendar day in loc, newest day first.
// Each day's commits are further grouped by repository.
func GroupByDay(commits []Commit, loc *time.Location) []DayGroup {
	if len(commits) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	sorted := make([]Commit, len(commits))
	copy(sorted, commits)
	sortNewestFirst(sorted)

	var days []DayGroup
	var current []Commit
	var currentDate string
	flush := func() {
		if len(current) == 0 {
			return
		}
		day := DayGroup{Date: currentDate, Repos: GroupByRepo(current)}
		for _, r := range day.Repos {
			day.Additions += r.Additions
			day.Deletions += r.Deletions
		}
		days = append(days, day)
	}
	for _, c := range sorted {
		date := c.AuthorDate.In(loc).Format(DateLayout)
		if date != currentDate {
			flush()
			current = nil
			currentDate = date
		}
		current = append(current, c)
	}
	flush()
	return days
}

func sortNewestFirst(commits []Commit) {
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].AuthorDate.After(commits[j].AuthorDate)
	})
}
