package main

import "github.com/charmbracelet/lipgloss"

var (
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f6368")).Width(4)
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1a73e8"))
	weightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00635D"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")).Italic(true)
)
