package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// RenderMarkdown renders markdown for a terminal. A width of zero
// disables word wrapping.
func RenderMarkdown(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}

	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}

	return r.Render(md)
}

var badgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// Badge styles badge text when color is true and returns it unchanged
// otherwise.
func Badge(text string, color bool) string {
	if !color {
		return text
	}

	return badgeStyle.Render(text)
}
