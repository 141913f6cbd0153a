package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coregx/backrex"
)

// Color palette.
var (
	matchColor  = lipgloss.Color("#F59E0B")
	errorColor  = lipgloss.Color("#EF4444")
	promptColor = lipgloss.Color("#10B981")
)

// Shared styles.
var (
	matchStyle  = lipgloss.NewStyle().Bold(true).Foreground(matchColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(promptColor)
)

// highlightSpans repaints text with the match style over each span.
// Spans are rune offsets, ascending and non-overlapping, as produced by
// Pattern.FindAll. Zero-width spans are skipped since there is nothing
// to paint.
func highlightSpans(text string, spans []backrex.Span, color bool) string {
	if !color || len(spans) == 0 {
		return text
	}
	runes := []rune(text)
	var sb strings.Builder
	last := 0
	for _, sp := range spans {
		if sp.End <= sp.Start {
			continue
		}
		sb.WriteString(string(runes[last:sp.Start]))
		sb.WriteString(matchStyle.Render(string(runes[sp.Start:sp.End])))
		last = sp.End
	}
	sb.WriteString(string(runes[last:]))
	return sb.String()
}
