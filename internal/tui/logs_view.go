package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/cwtail/internal/tail"
)

var (
	// Log level patterns
	errorPattern   = regexp.MustCompile(`(?i)\b(error|err|fatal|fail|failed|exception|panic)\b`)
	warningPattern = regexp.MustCompile(`(?i)\b(warn|warning|caution)\b`)
	infoPattern    = regexp.MustCompile(`(?i)\b(info|information)\b`)
	debugPattern   = regexp.MustCompile(`(?i)\b(debug|trace)\b`)

	// Lambda and API Gateway markers
	requestPattern = regexp.MustCompile(`\b(START|END|REPORT) RequestId: [0-9a-f-]+`)
	urlPattern     = regexp.MustCompile(`https?://[^\s]+`)

	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")) // Dim gray
	noticeStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#F9E2AF"))

	errorLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")) // Red
	warningLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")) // Orange
	infoLogStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")) // Blue
	debugLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")) // Dim
	defaultLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")) // Normal

	requestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CBA6F7"))
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#89DCEB"))
)

// levelStyle picks a style from the level keywords in a message
func levelStyle(message string) lipgloss.Style {
	switch {
	case errorPattern.MatchString(message):
		return errorLogStyle
	case warningPattern.MatchString(message):
		return warningLogStyle
	case infoPattern.MatchString(message):
		return infoLogStyle
	case debugPattern.MatchString(message):
		return debugLogStyle
	default:
		return defaultLogStyle
	}
}

// styleLine renders one buffer line, truncating each message line to maxWidth
func styleLine(l tail.Line, maxWidth int) string {
	if l.Notice {
		return noticeStyle.Render(l.String())
	}

	timestamp := timestampStyle.Render(l.Timestamp.Format("2006-01-02 15:04:05.000"))
	avail := maxWidth - lipgloss.Width(timestamp) - 2

	// multi-line messages (stack traces) keep their line breaks
	parts := strings.Split(l.Message, "\n")
	style := levelStyle(l.Message)
	for i, p := range parts {
		if avail > 0 {
			p = truncate(p, avail)
		}
		parts[i] = styleMessage(p, style)
	}

	indent := strings.Repeat(" ", lipgloss.Width(timestamp)+2)
	return timestamp + "  " + strings.Join(parts, "\n"+indent)
}

// styleMessage applies the base style and highlights request markers and URLs
func styleMessage(message string, base lipgloss.Style) string {
	if requestPattern.MatchString(message) {
		return requestStyle.Render(message)
	}

	var out strings.Builder
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(message, -1) {
		out.WriteString(base.Render(message[last:loc[0]]))
		out.WriteString(urlStyle.Render(message[loc[0]:loc[1]]))
		last = loc[1]
	}
	out.WriteString(base.Render(message[last:]))
	return out.String()
}
