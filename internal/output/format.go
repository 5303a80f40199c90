// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"todoclist/internal/service"
)

// DateLayout renders dates as e.g. "Sun Oct 18 03:04:05 PM 2026".
const DateLayout = "Mon Jan _2 03:04:05 PM 2006"

// Styles holds the styles used to render tasks.
type Styles struct {
	ID    lipgloss.Style
	Name  lipgloss.Style
	Arrow lipgloss.Style
	Date  lipgloss.Style
}

// NewStyles creates styles bound to w. Color is dropped when noColor is set
// or when w is not a terminal.
func NewStyles(w io.Writer, noColor bool) Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return Styles{
		ID:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Name:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Arrow: r.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		Date:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
}

// FormatTask writes a task entry:
//
//	#1: buy milk
//	 \-> Created at Sun Oct 18 03:04:05 PM 2026
//
// Completed tasks get an extra "Completed at" line.
func FormatTask(w io.Writer, st Styles, entry service.Entry, loc *time.Location) {
	fmt.Fprintf(w, "%s%s\n", st.ID.Render(fmt.Sprintf("#%d: ", entry.ID)), st.Name.Render(normalizeName(entry.Task.Name)))
	fmt.Fprintf(w, "%s%s\n", st.Arrow.Render(` \-> Created at `), st.Date.Render(FormatDate(entry.Task.CreatedAt(), loc)))
	if entry.Task.IsCompleted() {
		fmt.Fprintf(w, "%s%s\n", st.Arrow.Render(` \-> Completed at `), st.Date.Render(FormatDate(entry.Task.CompletedAt(), loc)))
	}
}

// FormatDate renders t in loc using DateLayout.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// normalizeName replaces newlines with spaces so each task keeps its
// two-line layout.
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	return strings.ReplaceAll(name, "\n", " ")
}
