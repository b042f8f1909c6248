package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// dungeon layer, player health, known skill count, and — during combat —
// the enemy's health.
func (m Model) renderStatusBar() string {
	p := m.session.Player

	left := fmt.Sprintf(" Layer %d | HP %d/%d", m.session.Layer, p.Health, p.MaxHealth)
	if m.mode == modeCombat && m.enemy != nil {
		left += fmt.Sprintf(" | %s %d/%d", m.enemy.Name, m.enemy.Health, m.enemy.MaxHealth)
	}

	right := fmt.Sprintf("Skills: %d ", len(p.KnownSkills()))

	// Show skill names if they fit, otherwise just the count.
	names := m.skillNames(p.KnownSkills())
	candidate := "Skills: " + strings.Join(names, ", ") + " "
	if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
		right = candidate
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
