// Package ui provides the interactive layer for svnws commands.
//
// Commands never talk to the prompt package directly; they go through
// the helpers here so non-interactive sessions (pipes, CI) fail with
// ErrCancelled instead of hanging on a prompt nobody can answer.
package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/svnws/svnws/internal/conflict"
	"github.com/svnws/svnws/internal/ui/prompt"
)

// ErrCancelled is returned when the user aborts an interactive prompt
// or when a prompt is needed but no terminal is attached.
var ErrCancelled = errors.New("cancelled")

// Interactive reports whether prompts can be shown.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// Confirm shows a yes/no prompt. Cancellation maps to ErrCancelled.
func Confirm(msg string) (bool, error) {
	if !Interactive() {
		return false, fmt.Errorf("%q needs a terminal: %w", msg, ErrCancelled)
	}
	res, err := prompt.Confirm(msg)
	if err != nil {
		return false, err
	}
	if res.Cancelled {
		return false, ErrCancelled
	}
	return res.Confirmed, nil
}

// Select shows a list selection prompt and returns the chosen index.
// Cancellation maps to ErrCancelled.
func Select(msg string, options []string) (int, error) {
	if !Interactive() {
		return 0, fmt.Errorf("%q needs a terminal: %w", msg, ErrCancelled)
	}
	res, err := prompt.Select(msg, options)
	if err != nil {
		return 0, err
	}
	if res.Cancelled {
		return 0, ErrCancelled
	}
	return res.Index, nil
}

// Input shows a text input prompt. Cancellation maps to ErrCancelled.
func Input(msg, placeholder string) (string, error) {
	if !Interactive() {
		return "", fmt.Errorf("%q needs a terminal: %w", msg, ErrCancelled)
	}
	res, err := prompt.TextInput(msg, placeholder)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", ErrCancelled
	}
	return res.Value, nil
}

// Conflict prompt options, shown once per conflicted item.
const (
	conflictKeepMine    = "Keep My Version (Keep Local Changes)"
	conflictDiscardMine = "Discard My Version (Delete Local Changes)"
)

// ConflictChooser returns a conflict.Chooser backed by an interactive
// selection prompt.
func ConflictChooser() conflict.Chooser {
	return conflict.ChooserFunc(func(item conflict.Item) (conflict.Decision, error) {
		msg := fmt.Sprintf("Conflict on %s (%s)", item.Path, item.Kind)
		idx, err := Select(msg, []string{conflictKeepMine, conflictDiscardMine})
		if err != nil {
			return 0, err
		}
		if idx == 0 {
			return conflict.KeepMine, nil
		}
		return conflict.DiscardMine, nil
	})
}
