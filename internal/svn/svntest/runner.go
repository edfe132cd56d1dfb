// Package svntest provides a fake backend runner for tests.
package svntest

import (
	"context"
	"strings"
	"sync"
)

// Call records one backend invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call as it would appear on a shell command line.
func (c Call) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner is a scripted svn.Runner. Commands are matched by command-line
// prefix against registered stubs; unmatched commands succeed with empty
// output. All invocations are recorded.
type Runner struct {
	mu    sync.Mutex
	calls []Call
	stubs []stub
}

type stub struct {
	prefix string
	out    string
	err    error
}

// Stub registers a response for every command whose command line starts
// with prefix. Later registrations win over earlier ones.
func (r *Runner) Stub(prefix, out string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs = append(r.stubs, stub{prefix: prefix, out: out, err: err})
}

// Calls returns a copy of all recorded invocations.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CalledWith reports whether any recorded command line starts with prefix.
func (r *Runner) CalledWith(prefix string) bool {
	for _, c := range r.Calls() {
		if strings.HasPrefix(c.String(), prefix) {
			return true
		}
	}
	return false
}

func (r *Runner) dispatch(name string, args []string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Name: name, Args: args})
	line := Call{Name: name, Args: args}.String()
	for i := len(r.stubs) - 1; i >= 0; i-- {
		if strings.HasPrefix(line, r.stubs[i].prefix) {
			return r.stubs[i].out, r.stubs[i].err
		}
	}
	return "", nil
}

// Run implements svn.Runner.
func (r *Runner) Run(_ context.Context, name string, args ...string) error {
	_, err := r.dispatch(name, args)
	return err
}

// Output implements svn.Runner.
func (r *Runner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	out, err := r.dispatch(name, args)
	return []byte(out), err
}
