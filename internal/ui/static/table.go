// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction, such as tables and
// formatted text displays.
package static

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/svnws/svnws/internal/ui/styles"
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// ProjectTableHeaders are the column headers for project listings.
var ProjectTableHeaders = []string{"PROJECT", "STATE", "BRANCHES", "LAST CHANGED"}

// ProjectTableRow formats a single project listing row.
// revision is the last changed revision (0 renders empty), url is used
// for an optional terminal hyperlink on the revision cell.
func ProjectTableRow(name string, deleted, current bool, branches string, revision uint64, url string) []string {
	styledName := name
	switch {
	case deleted:
		styledName = styles.MutedStyle.Render(name)
	case current:
		styledName = styles.AccentStyle.Render(name)
	}

	return []string{
		styledName,
		styles.FormatProjectState(deleted, current),
		branches,
		styles.FormatRevisionRef(revision, url),
	}
}

// LogTableHeaders are the column headers for revision history output.
var LogTableHeaders = []string{"REV", "DATE", "MESSAGE"}

// maxMessageWidth caps the MESSAGE column so wide commit messages
// don't wrap the table.
const maxMessageWidth = 72

// LogTableRow formats a single revision history row. The revision the
// working copy sits on gets a marker and accent styling.
func LogTableRow(revision uint64, current bool, date, message string) []string {
	message = firstLine(message)
	if r := []rune(message); len(r) > maxMessageWidth {
		message = string(r[:maxMessageWidth-1]) + "…"
	}

	rev := fmt.Sprintf("  r%d", revision)
	if current {
		rev = styles.AccentStyle.Render(fmt.Sprintf("> r%d", revision))
	}

	return []string{rev, date, message}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
