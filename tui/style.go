package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208"))

	styleHit = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleGain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindBanner
	kindHit
	kindGain
	kindSystem
	kindError
)

// classifyLine determines how to style an engine output line.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "---"),
		strings.HasPrefix(line, "[EVOLUTION]"):
		return kindBanner
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "The ") && strings.Contains(line, "hits you"),
		strings.HasPrefix(line, "You take "),
		strings.HasPrefix(line, "You have been defeated"),
		strings.HasPrefix(line, "GAME OVER"):
		return kindError
	case strings.HasPrefix(line, "You hit "),
		strings.HasPrefix(line, "You defeated "):
		return kindHit
	case strings.HasPrefix(line, "You devour "),
		strings.HasPrefix(line, "You fused "),
		strings.HasPrefix(line, "You climb "):
		return kindGain
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindBanner:
		return styleBanner.Render(line)
	case kindHit:
		return styleHit.Render(line)
	case kindGain:
		return styleGain.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
