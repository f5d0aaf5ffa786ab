package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240")).
			PaddingRight(1).
			MarginRight(1)

	sidebarItemStyle     = lipgloss.NewStyle().Padding(0, 1)
	sidebarSelectedStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("62")).Reverse(true)

	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	helpStyle   = lipgloss.NewStyle().Faint(true).MarginTop(1)
	boxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	kpiValStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)
