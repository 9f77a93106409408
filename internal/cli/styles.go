package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/karate-runner/internal/domain"
)

// styles holds the lipgloss styles used by text output.
type styles struct {
	header    lipgloss.Style
	key       lipgloss.Style
	value     lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	warning   lipgloss.Style
	errorText lipgloss.Style
	dim       lipgloss.Style
}

func newStyles() *styles {
	return &styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D7FF")),
		key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D7FF")),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF87")),
		failure: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F5F")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")),
	}
}

// status renders a run status with its color.
func (s *styles) status(st domain.RunStatus) string {
	switch st {
	case domain.RunStatusPassed:
		return s.success.Render("✓ " + st.String())
	case domain.RunStatusFailed:
		return s.failure.Render("✗ " + st.String())
	case domain.RunStatusError:
		return s.failure.Render("! " + st.String())
	case domain.RunStatusUnknown:
		return s.warning.Render("? " + st.String())
	}
	return st.String()
}

// field renders "key: value".
func (s *styles) field(key, value string) string {
	return s.key.Render(key+":") + " " + s.value.Render(value)
}
