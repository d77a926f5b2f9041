// ABOUTME: Shared lipgloss styles for the chat screens.
// ABOUTME: Palette follows the temperament colors used by the persona profiles.

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	colorPrimary = lipgloss.Color("#9333EA") // analyst purple
	colorAccent  = lipgloss.Color("#4ADE80") // diplomat green
	colorWarning = lipgloss.Color("#EAB308") // explorer yellow
	colorError   = lipgloss.Color("#DC2626") // red
	colorMuted   = lipgloss.Color("#6B7280") // gray
	colorBorder  = lipgloss.Color("#374151") // gray border
	colorUser    = lipgloss.Color("#60A5FA") // sentinel blue

	// Pane borders
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	focusedPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1)

	// Message rendering
	userNameStyle = lipgloss.NewStyle().
			Foreground(colorUser).
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	mediaTagStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	linkStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Underline(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	// Room sidebar
	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB"))

	selectedRoomStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	busyMarkerStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	// Create-room form
	pickedStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	// Input bar
	inputBarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)
)

// senderStyle returns the name style for an agent color, falling back to
// the primary color when the profile carries none.
func senderStyle(hex string) lipgloss.Style {
	if hex == "" {
		return lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}
