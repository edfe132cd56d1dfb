package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Symbols holds the icon/symbol set based on nerdfont configuration
type Symbols struct {
	Trunk    string
	Branch   string
	Deleted  string
	Current  string
	Conflict string
}

// Default symbols (ASCII-safe)
var defaultSymbols = Symbols{
	Trunk:    "●",
	Branch:   "○",
	Deleted:  "✕",
	Current:  "→",
	Conflict: "!",
}

// Nerd font symbols
var nerdfontSymbols = Symbols{
	Trunk:    "", // nf-pl-branch
	Branch:   "", // nf-cod-git_branch
	Deleted:  "", // nf-cod-trash
	Current:  "", // nf-fa-arrow_right
	Conflict: "", // nf-cod-warning
}

// useNerdfont tracks whether nerd font symbols are enabled
var useNerdfont bool

// currentSymbols holds the active symbol set
var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// BranchSymbol returns the symbol for a branch name.
// The trunk branch gets its own marker.
func BranchSymbol(branch string) string {
	if branch == "trunk" {
		return currentSymbols.Trunk
	}
	return currentSymbols.Branch
}

// FormatProjectState returns a formatted string with symbol and state
// for project listings.
func FormatProjectState(deleted, current bool) string {
	switch {
	case deleted:
		return currentSymbols.Deleted + " deleted"
	case current:
		return currentSymbols.Current + " current"
	default:
		return currentSymbols.Trunk + " active"
	}
}

// FormatRevisionRef returns a colored r<number> string with an OSC 8
// hyperlink when url is non-empty. Returns empty string if number == 0.
func FormatRevisionRef(number uint64, url string) string {
	if number == 0 {
		return ""
	}

	text := fmt.Sprintf("r%d", number)
	var style lipgloss.Style = PrimaryStyle

	if url != "" {
		styled := style.Underline(true).Render(text)
		return ansi.SetHyperlink(url) + styled + ansi.ResetHyperlink()
	}
	return style.Render(text)
}
