package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorSecondary = lipgloss.Color("10")  // bright green
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray

	styleInput       = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleInputPrompt = styleInput

	styleSummary = lipgloss.NewStyle().Foreground(colorSecondary).Padding(0, 1)

	styleListSelected = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	styleReportKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styleStats        = lipgloss.NewStyle().Foreground(colorSecondary)
	styleLossy        = lipgloss.NewStyle().Foreground(colorDim)
	styleSnippet      = lipgloss.NewStyle().Foreground(colorDim)
	styleKindEvent    = lipgloss.NewStyle().Foreground(colorPrimary)
	styleKindFeedback = lipgloss.NewStyle().Foreground(colorSecondary)
	styleEmpty        = lipgloss.NewStyle().Foreground(colorDim).Align(lipgloss.Center, lipgloss.Center)

	stylePanelBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder)
	styleActiveBorder = stylePanelBorder.BorderForeground(colorPrimary)

	styleStatusBar = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
)
