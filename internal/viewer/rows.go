package viewer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/naka-gawa/commit-streaks/internal/collapse"
	"github.com/naka-gawa/commit-streaks/internal/page"
)

type rowKind int

const (
	dayRow rowKind = iota
	repoRow
	commitRow
)

// row is one visible line of the page.
type row struct {
	kind    rowKind
	sel     *goquery.Selection
	text    string
	tooltip string
	open    bool
}

func (r row) depth() int {
	return int(r.kind)
}

// buildRows flattens the currently visible part of the tree.
func buildRows(doc *goquery.Document) []row {
	var rows []row
	if doc == nil {
		return rows
	}
	days := doc.Find(collapse.RootSelector).First().Find(collapse.DaySelector)
	days.Each(func(_ int, day *goquery.Selection) {
		text := squash(day.Find(".day-bar").First().Text())
		if text == "" {
			text = day.AttrOr("data-date", "day")
		}
		dayOpen := collapse.IsDayExpanded(day)
		rows = append(rows, row{kind: dayRow, sel: day, text: text, open: dayOpen})
		if !dayOpen {
			return
		}

		day.Find(collapse.RepoSelector).Each(func(_ int, repo *goquery.Selection) {
			name := squash(repo.Find(collapse.RepoLinkSelector).First().Text())
			badge := squash(repo.ChildrenFiltered(page.BadgeMountSelector).Text())
			repoOpen := collapse.IsRepoExpanded(repo)
			rows = append(rows, row{kind: repoRow, sel: repo, text: squash(name + " " + badge), open: repoOpen})
			if !repoOpen {
				return
			}

			repo.Find(collapse.CommitSelector).Each(func(_ int, commit *goquery.Selection) {
				rows = append(rows, row{
					kind:    commitRow,
					sel:     commit,
					text:    squash(commit.Text()),
					tooltip: commit.Find(page.TooltipSelector).AttrOr("title", ""),
				})
			})
		})
	})
	return rows
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
