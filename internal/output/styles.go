package output

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#3B82F6") // Blue
	colorWarning   = lipgloss.Color("#F59E0B") // Amber
	colorMuted     = lipgloss.Color("#6B7280") // Gray
)

// Styles used by the renderers. The zero value renders plain text.
type Styles struct {
	Group lipgloss.Style
	Unit  lipgloss.Style
	Path  lipgloss.Style
	Exe   lipgloss.Style
	Owner lipgloss.Style
	Note  lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is false.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{Group: plain, Unit: plain, Path: plain, Exe: plain, Owner: plain, Note: plain}
	}
	return Styles{
		Group: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Unit:  lipgloss.NewStyle().Foreground(colorSecondary),
		Path:  lipgloss.NewStyle().Foreground(colorMuted),
		Exe:   lipgloss.NewStyle().Foreground(colorWarning),
		Owner: lipgloss.NewStyle().Italic(true),
		Note:  lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	}
}
