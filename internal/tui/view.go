package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	listStyle, detailStyle := focusedPanelStyle, panelStyle
	if m.focusDetails {
		listStyle, detailStyle = panelStyle, focusedPanelStyle
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Render(m.table.View()),
		detailStyle.Width(m.details.Width+2).Render(m.details.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		main,
		m.renderStatus(),
	)
}

func (m Model) renderTitle() string {
	units := 0
	for _, g := range m.report.Groups {
		units += len(g.Units)
	}
	summary := fmt.Sprintf("%d units, %d executables outside any unit", units, len(m.report.Orphans))
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("staleproc"),
		statusStyle.Render(summary),
	)
}

func (m Model) renderStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("rescan failed: %v", m.err))
	case m.scanning:
		return statusStyle.Render("Scanning...")
	}
	return statusStyle.Render(m.help.View(m.keys))
}
