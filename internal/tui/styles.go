package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/innervoice/core/dialogue"
)

var categoryColors = map[dialogue.Category]lipgloss.Color{
	dialogue.CategoryIntellect: lipgloss.Color("#5CC1D7"),
	dialogue.CategoryPsyche:    lipgloss.Color("#7556CF"),
	dialogue.CategoryPhysique:  lipgloss.Color("#CB476A"),
	dialogue.CategoryMotorics:  lipgloss.Color("#E3B734"),
}

const (
	white        = lipgloss.Color("#FFFFFF")
	inactiveGrey = lipgloss.Color("#808080")
	activeRed    = lipgloss.Color("#8F2510")
)

var (
	textStyle  = lipgloss.NewStyle().Foreground(white)
	youStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CB476A"))

	continueInactiveStyle = lipgloss.NewStyle().Foreground(white).Background(inactiveGrey)
	continueActiveStyle   = lipgloss.NewStyle().Foreground(white).Background(activeRed)
)

// skillStyle colours the skill name by its category; unknown skills are
// white.
func skillStyle(category dialogue.Category) lipgloss.Style {
	color, ok := categoryColors[category]
	if !ok {
		color = white
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}
