package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pranshuparmar/staleproc/pkg/model"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case reportMsg:
		m.scanning = false
		m.err = msg.err
		if msg.err == nil {
			m.setReport(msg.report)
		}
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
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		m.focusDetails = !m.focusDetails
		if m.focusDetails {
			m.table.Blur()
		} else {
			m.table.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Rescan):
		if m.rescan == nil || m.scanning {
			return m, nil
		}
		m.scanning = true
		m.err = nil
		return m, rescanCmd(m.rescan)
	}

	var cmd tea.Cmd
	if m.focusDetails {
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}

	prev := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != prev {
		m.refreshDetails()
	}
	return m, cmd
}

// resize lays the panes out for the current window: list on the left,
// details on the right, title and status bar taking three lines.
func (m *Model) resize() {
	listWidth := m.width * 60 / 100
	detailWidth := m.width - listWidth - 4
	contentHeight := max(m.height-5, 3)

	m.table.SetColumns(columns(listWidth))
	m.table.SetWidth(listWidth - 4)
	m.table.SetHeight(contentHeight - 1)

	m.details.Width = max(detailWidth-4, 0)
	m.details.Height = contentHeight
	m.help.Width = m.width
	m.refreshDetails()
}

func rescanCmd(rescan func() (model.Report, error)) tea.Cmd {
	return func() tea.Msg {
		r, err := rescan()
		return reportMsg{report: r, err: err}
	}
}
