package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	XPStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)

	barFull  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

// ProgressBar renders current/total as a bar width cells wide.
func ProgressBar(current, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, max(0, current*width/total))
	}
	return barFull.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", width-filled))
}

// Success prints a styled confirmation line.
func Success(format string, args ...any) {
	fmt.Println(SuccessStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// Warn prints a styled warning line.
func Warn(format string, args ...any) {
	fmt.Println(WarnStyle.Render("⚠ " + fmt.Sprintf(format, args...)))
}
