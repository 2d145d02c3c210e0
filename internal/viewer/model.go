// Package viewer is a terminal browser for rendered commit group pages.
// It drives the same collapse controller the page uses, so cursor
// actions behave like clicks on the day and repo headers.
package viewer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/naka-gawa/commit-streaks/internal/collapse"
	"github.com/naka-gawa/commit-streaks/internal/page"
	"github.com/naka-gawa/commit-streaks/internal/route"
	"github.com/sirupsen/logrus"
)

const noticeTimeout = 3 * time.Second

// PageLoader fetches and parses a rendered page.
type PageLoader interface {
	Load(ctx context.Context, src string) (*goquery.Document, error)
}

// Refresher asks the backend to re-collect the group behind a page.
type Refresher interface {
	Refresh(ctx context.Context, pageURL string) error
}

type pageLoadedMsg struct {
	doc *goquery.Document
}

type refreshDoneMsg struct{}

type errorMsg struct {
	err error
}

type clearNoticeMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	dayStyle   = lipgloss.NewStyle().Bold(true)
	repoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0969DA"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	cursorRow  = lipgloss.NewStyle().Reverse(true)
	noticeOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A7F37"))
	noticeErr  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CF222E"))
)

// Model is the bubbletea model of the viewer.
type Model struct {
	src        string
	loader     PageLoader
	refresher  Refresher
	labeler    page.DayLabeler
	controller *collapse.Controller
	logger     logrus.FieldLogger

	doc     *goquery.Document
	rows    []row
	cursor  int
	offset  int
	loading bool

	notice      string
	noticeIsErr bool

	keys   keyMap
	help   help.Model
	height int
}

// NewModel creates a viewer for the page at src. Every loaded page has
// its widgets mounted with labeler before the collapse policy is applied.
func NewModel(src string, loader PageLoader, refresher Refresher, labeler page.DayLabeler, controller *collapse.Controller, logger logrus.FieldLogger) Model {
	return Model{
		src:        src,
		loader:     loader,
		refresher:  refresher,
		labeler:    labeler,
		controller: controller,
		logger:     logger,
		loading:    true,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadPage()
}

func (m Model) loadPage() tea.Cmd {
	loader, src := m.loader, m.src
	return func() tea.Msg {
		doc, err := loader.Load(context.Background(), src)
		if err != nil {
			return errorMsg{err: fmt.Errorf("failed to load page: %w", err)}
		}
		return pageLoadedMsg{doc: doc}
	}
}

func (m Model) refreshPage() tea.Cmd {
	refresher, src := m.refresher, m.src
	return func() tea.Msg {
		if !page.IsRemote(src) {
			return errorMsg{err: fmt.Errorf("%s is a local file: %w", src, route.ErrMissingGroupID)}
		}
		if err := refresher.Refresh(context.Background(), src); err != nil {
			return errorMsg{err: err}
		}
		return refreshDoneMsg{}
	}
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil

	case pageLoadedMsg:
		m.loading = false
		m.doc = msg.doc
		var cmd tea.Cmd
		if err := page.Mount(m.doc, m.labeler); err != nil {
			m.logger.WithError(err).Warn("some day labels could not be rendered")
			m.notice, m.noticeIsErr = err.Error(), true
			cmd = clearNoticeAfter(noticeTimeout)
		}
		days := m.controller.Init(m.doc)
		m.logger.WithField("days", days).Debug("page loaded")
		m.rows = buildRows(m.doc)
		m.clampCursor()
		return m, cmd

	case refreshDoneMsg:
		m.loading = true
		m.notice, m.noticeIsErr = "refreshed", false
		return m, tea.Batch(m.loadPage(), clearNoticeAfter(noticeTimeout))

	case errorMsg:
		m.loading = false
		m.notice, m.noticeIsErr = msg.err.Error(), true
		return m, clearNoticeAfter(noticeTimeout)

	case clearNoticeMsg:
		m.notice, m.noticeIsErr = "", false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scrollToCursor()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.scrollToCursor()

	case key.Matches(msg, m.keys.Toggle):
		m.toggleCurrent()

	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.notice, m.noticeIsErr = "refreshing...", false
		return m, m.refreshPage()

	case key.Matches(msg, m.keys.URL):
		if m.doc == nil {
			return m, nil
		}
		shareURL := m.doc.Find(page.GroupURLSelector).First().AttrOr("value", m.src)
		m.notice, m.noticeIsErr = shareURL, false
		return m, clearNoticeAfter(noticeTimeout)
	}
	return m, nil
}

func (m *Model) toggleCurrent() {
	if m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	switch r.kind {
	case dayRow:
		m.controller.ToggleDay(r.sel)
	case repoRow:
		m.controller.ToggleRepo(r.sel)
	default:
		return
	}
	m.rows = buildRows(m.doc)
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

// listHeight is the number of rows that fit between header and footer.
func (m Model) listHeight() int {
	if m.height == 0 {
		return len(m.rows)
	}
	return max(m.height-4, 1)
}

func (m *Model) scrollToCursor() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("commit streaks"))
	b.WriteString(faintStyle.Render("  " + m.src))
	b.WriteString("\n")

	switch {
	case m.loading && m.doc == nil:
		b.WriteString("loading...\n")
	case len(m.rows) == 0:
		b.WriteString(faintStyle.Render("no commits on this page"))
		b.WriteString("\n")
	default:
		end := min(m.offset+m.listHeight(), len(m.rows))
		for i := m.offset; i < end; i++ {
			line := m.renderRow(m.rows[i])
			if i == m.cursor {
				line = cursorRow.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderRow(r row) string {
	indent := strings.Repeat("  ", r.depth())
	marker := "▸ "
	if r.open {
		marker = "▾ "
	}
	switch r.kind {
	case dayRow:
		return indent + marker + dayStyle.Render(r.text)
	case repoRow:
		return indent + marker + repoStyle.Render(r.text)
	default:
		return indent + "  " + r.text
	}
}

// statusLine shows the pending notice, or the tooltip of the focused row.
func (m Model) statusLine() string {
	if m.notice != "" {
		if m.noticeIsErr {
			return noticeErr.Render(m.notice)
		}
		return noticeOK.Render(m.notice)
	}
	if m.cursor < len(m.rows) && m.rows[m.cursor].tooltip != "" {
		return faintStyle.Render(m.rows[m.cursor].tooltip)
	}
	return ""
}
