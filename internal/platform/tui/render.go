package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-grove/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorWall:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorGround:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorProp:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorTrunk:      lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	core.ColorCanopy:     lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	core.ColorSeed:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorProjectile: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorSelf:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorOther:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorSensor:     lipgloss.NewStyle().Foreground(lipgloss.Color("67")),
	core.ColorJoint:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorHUD:        lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorWarn:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
