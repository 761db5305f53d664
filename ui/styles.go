package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorAdded   = lipgloss.Color("#10B981")
	colorRemoved = lipgloss.Color("#EF4444")
	colorHunk    = lipgloss.Color("#3B82F6")
	colorOption  = lipgloss.Color("#9CA3AF")
	colorActive  = lipgloss.Color("#FFFFFF")
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	hintStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	addedStyle    = lipgloss.NewStyle().Foreground(colorAdded)
	removedStyle  = lipgloss.NewStyle().Foreground(colorRemoved)
	hunkStyle     = lipgloss.NewStyle().Foreground(colorHunk)

	activeOptionStyle   = lipgloss.NewStyle().Foreground(colorActive).Background(colorPrimary).Bold(true).Padding(0, 1)
	inactiveOptionStyle = lipgloss.NewStyle().Foreground(colorOption).Padding(0, 1)
)
