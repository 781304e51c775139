// Package tui is an interactive browser for a staleproc report.
package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

const noUnitLabel = "no unit"

// entry is one row of the list: a unit, or an executable outside any unit.
type entry struct {
	group  string
	name   string
	orphan bool
}

// Model is the bubbletea model for the report browser.
type Model struct {
	report       model.Report
	entries      []entry
	table        table.Model
	details      viewport.Model
	help         help.Model
	keys         KeyMap
	rescan       func() (model.Report, error)
	focusDetails bool
	scanning     bool
	err          error
	width        int
	height       int
}

// New builds the model. rescan may be nil to disable rescanning.
func New(r model.Report, rescan func() (model.Report, error)) Model {
	t := table.New(
		table.WithColumns(columns(60)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(colorSecondary)
	s.Selected = s.Selected.Foreground(lipgloss.Color("#FAFAFA")).Background(colorFocus)
	t.SetStyles(s)

	m := Model{
		table:   t,
		details: viewport.New(0, 0),
		help:    help.New(),
		keys:    DefaultKeyMap(),
		rescan:  rescan,
	}
	m.setReport(r)
	return m
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(r model.Report, rescan func() (model.Report, error)) error {
	p := tea.NewProgram(New(r, rescan), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func columns(width int) []table.Column {
	const groupWidth, countWidth = 12, 6
	nameWidth := max(width-groupWidth-countWidth-6, 10)
	return []table.Column{
		{Title: "GROUP", Width: groupWidth},
		{Title: "UNIT / EXECUTABLE", Width: nameWidth},
		{Title: "COUNT", Width: countWidth},
	}
}

func (m *Model) setReport(r model.Report) {
	m.report = r
	m.entries = nil

	var rows []table.Row
	for _, g := range r.Groups {
		for _, u := range g.Units {
			m.entries = append(m.entries, entry{group: g.Group, name: u})
			rows = append(rows, table.Row{g.Group, u, strconv.Itoa(len(r.Units[u]))})
		}
	}
	for _, exe := range r.OrphanExes() {
		n := 0
		for _, pids := range r.Orphans[exe] {
			n += len(pids)
		}
		m.entries = append(m.entries, entry{group: noUnitLabel, name: exe, orphan: true})
		rows = append(rows, table.Row{noUnitLabel, exe, strconv.Itoa(n)})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	m.refreshDetails()
}

func (m *Model) current() (entry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return entry{}, false
	}
	return m.entries[i], true
}

func (m *Model) refreshDetails() {
	m.details.SetContent(m.detailContent())
	m.details.GotoTop()
}

// detailContent describes the selected row: stale files for a unit, or the
// processes per owner for an executable.
func (m *Model) detailContent() string {
	e, ok := m.current()
	if !ok {
		return pathStyle.Render("Nothing needs to be restarted.")
	}

	var b strings.Builder
	b.WriteString(detailsTitleStyle.Render(e.name))
	b.WriteString("\n")
	if !e.orphan {
		fmt.Fprintf(&b, "group: %s\n\nstale files:\n", e.group)
		for _, p := range m.report.Units[e.name].Sorted() {
			b.WriteString("  " + pathStyle.Render(p) + "\n")
		}
		return b.String()
	}

	b.WriteString("processes:\n")
	owners := m.report.Orphans[e.name]
	names := make([]string, 0, len(owners))
	for o := range owners {
		names = append(names, o)
	}
	slices.Sort(names)
	for _, o := range names {
		pids := owners[o].Sorted()
		ids := make([]string, len(pids))
		for i, pid := range pids {
			ids[i] = strconv.Itoa(pid)
		}
		fmt.Fprintf(&b, "  %s: %s\n", ownerStyle.Render(o), strings.Join(ids, " "))
	}
	return b.String()
}
