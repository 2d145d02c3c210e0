// Package collapse manages the expanded/collapsed state of the
// Day → Repo → Commit sections of a rendered group page.
//
// State lives in the markup itself: a detail region is collapsed when it
// carries CollapsedClass. The controller never adds or removes group
// nodes, it only flips that class.
package collapse

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/naka-gawa/commit-streaks/internal/config"
	"github.com/sirupsen/logrus"
)

// Markers shared with the page markup.
const (
	RootSelector       = "#commit-groups"
	DaySelector        = ".day"
	DayLinkSelector    = ".day-link"
	DayDetailSelector  = ".all-repos"
	RepoSelector       = ".repo"
	RepoLinkSelector   = ".repo-link"
	RepoDetailSelector = ".all-commits"
	CommitSelector     = ".commit"
	CollapsedClass     = "collapsed"
)

// Controller applies the initial collapse policy and performs toggles.
type Controller struct {
	opts   config.UIOptions
	logger logrus.FieldLogger
}

// NewController creates a Controller.
func NewController(opts config.UIOptions, logger logrus.FieldLogger) *Controller {
	return &Controller{opts: opts, logger: logger}
}

// Init expands the first day and collapses every other day's repo list.
// It returns the number of days found; a missing or empty root is not an
// error.
func (c *Controller) Init(doc *goquery.Document) int {
	days := doc.Find(RootSelector).First().Find(DaySelector)
	days.Each(func(i int, day *goquery.Selection) {
		detail := day.Find(DayDetailSelector)
		if i == 0 {
			detail.RemoveClass(CollapsedClass)
			return
		}
		detail.AddClass(CollapsedClass)
	})
	c.debug(logrus.Fields{"days": days.Length()}, "initialized commit groups")
	return days.Length()
}

// ToggleDay flips the repo list of the day containing target. target may
// be the day section or any node inside it, such as its header link.
// It reports whether the day is expanded afterwards.
func (c *Controller) ToggleDay(target *goquery.Selection) bool {
	return c.toggleGroup(target, DaySelector, DayDetailSelector)
}

// ToggleRepo flips the commit list of the repo containing target.
// It reports whether the repo is expanded afterwards.
func (c *Controller) ToggleRepo(target *goquery.Selection) bool {
	return c.toggleGroup(target, RepoSelector, RepoDetailSelector)
}

// toggleGroup finds the nearest scope around target and flips all of its
// child regions together: if any of them is collapsed they are all
// expanded, otherwise they are all collapsed.
func (c *Controller) toggleGroup(target *goquery.Selection, scopeSelector, childSelector string) bool {
	fields := logrus.Fields{"scope": scopeSelector, "child": childSelector}
	if target == nil {
		c.debug(fields, "toggle ignored: no target")
		return false
	}
	group := target.First().Closest(scopeSelector)
	regions := group.Find(childSelector)
	if regions.Length() == 0 {
		c.debug(fields, "toggle ignored: nothing matched")
		return false
	}

	if regions.HasClass(CollapsedClass) {
		regions.RemoveClass(CollapsedClass)
		c.debug(fields, "expanded")
		return true
	}
	regions.AddClass(CollapsedClass)
	c.debug(fields, "collapsed")
	return false
}

// IsDayExpanded reports whether the day containing target shows its repos.
func IsDayExpanded(target *goquery.Selection) bool {
	return isExpanded(target, DaySelector, DayDetailSelector)
}

// IsRepoExpanded reports whether the repo containing target shows its commits.
func IsRepoExpanded(target *goquery.Selection) bool {
	return isExpanded(target, RepoSelector, RepoDetailSelector)
}

func isExpanded(target *goquery.Selection, scopeSelector, childSelector string) bool {
	if target == nil {
		return false
	}
	regions := target.First().Closest(scopeSelector).Find(childSelector)
	return regions.Length() > 0 && !regions.HasClass(CollapsedClass)
}

func (c *Controller) debug(fields logrus.Fields, msg string) {
	if !c.opts.VerboseLogging {
		return
	}
	c.logger.WithFields(fields).Debug(msg)
}
