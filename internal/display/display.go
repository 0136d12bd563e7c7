// Package display provides terminal formatting for folio output.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/daviddao/folio/internal/contact"
	"github.com/daviddao/folio/internal/filter"
)

var (
	// Styles
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	Accent      = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb"))
	PendingText = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	ActiveChip  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#2563eb")).Padding(0, 1)
	Chip        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Padding(0, 1)
)

// StatusDot returns a colored dot for a contact form status.
func StatusDot(s contact.Status) string {
	switch s {
	case contact.StatusIdle:
		return Dim.Render("○")
	case contact.StatusSubmitting:
		return PendingText.Render("◌")
	case contact.StatusSuccess:
		return Success.Render("●")
	case contact.StatusError:
		return ErrStyle.Render("●")
	default:
		return Dim.Render("·")
	}
}

// StatusLine renders a status with its button label, e.g. "● Message Sent!".
func StatusLine(s contact.Status) string {
	label := fmt.Sprintf("%-11s", s.String())
	switch s {
	case contact.StatusSubmitting:
		label = PendingText.Render(label)
	case contact.StatusSuccess:
		label = Success.Render(label)
	case contact.StatusError:
		label = ErrStyle.Render(label)
	default:
		label = Muted.Render(label)
	}
	return fmt.Sprintf("%s %s %s", StatusDot(s), label, s.ButtonLabel())
}

// FeaturedMark returns a star for featured items.
func FeaturedMark(featured bool) string {
	if featured {
		return PendingText.Render("★")
	}
	return " "
}

// ProficiencyBar renders a 0..100 proficiency as a bar of width cells.
func ProficiencyBar(proficiency, width int) string {
	proficiency = max(0, min(100, proficiency))
	filled := proficiency * width / 100
	bar := Accent.Render(strings.Repeat("█", filled)) + Dim.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, proficiency)
}

// Chips renders filter options on one line with the active one highlighted.
func Chips(opts []filter.Option) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		if o.Active {
			parts[i] = ActiveChip.Render(o.Label)
		} else {
			parts[i] = Chip.Render(o.Label)
		}
	}
	return strings.Join(parts, " ")
}

// TimeAgo formats an ISO date string as a relative time.
func TimeAgo(isoDate string) string {
	if isoDate == "" {
		return ""
	}

	// Try multiple formats
	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05", time.RFC3339Nano} {
		t, err = time.Parse(layout, isoDate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return isoDate[:min(10, len(isoDate))]
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// Truncate shortens a string to maxLen runes, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Success.Render("✓") + " " + msg)
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+msg)
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}

// SubHeader prints a dim subsection label.
func SubHeader(title string) {
	fmt.Println(Muted.Render(title))
}

// MessageTree prints a contact message in a tree-style format.
// connector is one of "┌─", "├─", "└─"
func MessageTree(connector, from, date, body string) {
	fmt.Print(messageTree(connector, from, date, body, 4))
}

func messageTree(connector, from, date, body string, maxLines int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s  ·  %s\n", Muted.Render(connector), Bold.Render(from), Dim.Render(TimeAgo(date)))
	if body == "" {
		return b.String()
	}
	prefix := "  │  "
	if connector == "└─" {
		prefix = "     "
	}
	lines := strings.Split(strings.TrimSpace(body), "\n")
	for i, line := range lines {
		if i >= maxLines {
			fmt.Fprintf(&b, "%s%s\n", Muted.Render(prefix), Dim.Render(fmt.Sprintf("... (%d more lines)", len(lines)-maxLines)))
			break
		}
		fmt.Fprintf(&b, "%s%s\n", Muted.Render(prefix), Truncate(strings.TrimSpace(line), 80))
	}
	return b.String()
}
