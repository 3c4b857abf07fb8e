// Package style provides consistent terminal styling for sendtoftrack output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// Success is used for completed steps.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("76")).Bold(true)

	// Warning is used for non-fatal conditions the user should notice.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	// Error is used for failed steps.
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Info is used for progress lines.
	Info = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	// Dim is used for secondary detail such as paths.
	Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	// Bold is plain emphasis.
	Bold = lipgloss.NewStyle().Bold(true)
)

// Prefixes rendered in front of status lines.
var (
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)

// SetColor switches the global renderer between full color and plain ASCII.
// Prefixes are re-rendered so they pick up the new profile.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix = Error.Render("✗")
	ArrowPrefix = Info.Render("→")
}
