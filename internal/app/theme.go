package app

import "github.com/charmbracelet/lipgloss/v2"

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	userLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	agentLabelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114"))
	thoughtStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	thoughtLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true).Italic(true)
	subConvoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	toolStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	toolErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mediaStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("251"))
	metaStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	streamingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)
