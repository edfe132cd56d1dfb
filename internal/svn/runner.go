// Package svn wraps the Subversion command-line tools behind a narrow
// capability interface. Every repository operation is an external command
// invocation judged by its exit status; stdout is captured and interpreted
// as plain text or XML. The reconciliation logic above this package never
// touches process spawning directly.
package svn

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/svnws/svnws/internal/cmd"
)

// Runner executes backend commands in the working copy directory.
// The production implementation shells out; tests substitute fakes.
type Runner interface {
	// Run executes a command, discarding stdout.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CommandError reports a backend tool that ran but exited non-zero.
type CommandError struct {
	Name string
	Args []string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// IsCommandError reports whether err is a backend command failure,
// as opposed to a spawn or I/O failure.
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}

// execRunner runs commands through os/exec with verbose logging.
type execRunner struct {
	dir string
}

// NewRunner returns a Runner executing commands in dir.
// An empty dir means the current working directory.
func NewRunner(dir string) Runner {
	return execRunner{dir: dir}
}

// classify wraps exit failures as *CommandError. Spawn errors (missing
// binary, cancelled context) pass through untouched so callers can tell
// "tool said no" apart from "tool never ran".
func classify(err error, name string, args []string) error {
	if err == nil {
		return nil
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &CommandError{Name: name, Args: args, Err: err}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) error {
	err := cmd.RunContext(ctx, r.dir, name, args...)
	return classify(err, name, args)
}

func (r execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := cmd.OutputContext(ctx, r.dir, name, args...)
	return out, classify(err, name, args)
}
