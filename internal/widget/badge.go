// Package widget renders the small pieces of markup mounted into a group
// page: the diff-stat badge and the relative day label.
package widget

import (
	"fmt"
	"html/template"
	"strconv"
)

// RenderBadge returns the diff-stat badge for a commit, repo or day.
func RenderBadge(additions, deletions int) template.HTML {
	return RenderBadgeText(strconv.Itoa(additions), strconv.Itoa(deletions))
}

// RenderBadgeText is RenderBadge for counts that are shown as given.
func RenderBadgeText(additions, deletions string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<span class="changes"><span class="additions">+ %s</span><span> / </span><span class="deletions">- %s</span></span>`,
		template.HTMLEscapeString(additions), template.HTMLEscapeString(deletions)))
}
