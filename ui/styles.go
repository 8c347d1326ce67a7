package ui

import "github.com/charmbracelet/lipgloss"

var (
	rose      = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	roseLight = lipgloss.AdaptiveColor{Light: "#FB7185", Dark: "#FDA4AF"}
	roseFaint = lipgloss.AdaptiveColor{Light: "#FFE4E6", Dark: "#4C0519"}
	green     = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	gray      = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}

	titleStyle = lipgloss.NewStyle().
			Foreground(rose).
			Bold(true).
			Render

	subtleStyle = lipgloss.NewStyle().
			Foreground(gray).
			Render

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1F1F1")).
			Background(lipgloss.Color("#FF5F87")).
			Bold(true).
			Padding(0, 1).
			Render

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(rose).
			Bold(true).
			Padding(0, 2).
			Render

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(roseLight).
				Padding(0, 2).
				Render

	categoryStyle = lipgloss.NewStyle().
			Foreground(rose).
			Background(roseFaint).
			Padding(0, 1).
			Render

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(rose).
				Bold(true).
				Render

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#DDDADA"}).
			Render

	correctStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true).
			Render

	wrongStyle = lipgloss.NewStyle().
			Foreground(rose).
			Bold(true).
			Render

	dimStyle = lipgloss.NewStyle().
			Foreground(roseLight).
			Faint(true).
			Render

	optionBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(roseLight).
			Padding(0, 2)

	mascotBubble = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(roseLight).
			Foreground(lipgloss.AdaptiveColor{Light: "#5B2B62", Dark: "#F5D0FE"}).
			Padding(0, 1)

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}).
				Background(lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}).
				Render

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F1F1F1")).
				Background(lipgloss.Color("#C2185B")).
				Render

	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(rose).
			Bold(true).
			Render

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarNoteFg).
			Background(lipgloss.AdaptiveColor{Light: "#f2f2f2", Dark: "#1B1B1B"}).
			Render
)
