package render

import "github.com/charmbracelet/lipgloss"

var (
	// errorStyle for the headline of runtime and syntax failures
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	// fatalStyle for engine faults
	fatalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	// caretStyle for the underline below the offending source line
	caretStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// dimStyle for echoed source and stack traces
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// paint applies style to a single line when colour is enabled.
func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.color || s == "" {
		return s
	}
	return style.Render(s)
}
