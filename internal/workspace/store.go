// Package workspace manages the on-disk store of project checkouts.
//
// Checkouts live under store_dir/<repo>/<project>, with one reference
// counter file per project beside them. Teardown consults the counter
// and refuses to destroy a checkout another tool invocation still uses.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/svnws/svnws/internal/refcount"
)

// ErrInUse means another process holds a reference to the checkout.
var ErrInUse = errors.New("project checkout is in use by another process")

// EmptyDir is the placeholder directory at the repository root that a
// working copy switches to while moving between projects. It never
// shows up in project listings.
const EmptyDir = ".ws_empty"

// Store is the root directory holding per-repository checkout vaults.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// RepoDir returns the vault directory for one repository.
func (s *Store) RepoDir(repo string) string {
	return filepath.Join(s.dir, repo)
}

// ProjectDir returns the checkout directory for project in repo.
func (s *Store) ProjectDir(repo, project string) string {
	return filepath.Join(s.dir, repo, project)
}

// CounterPath returns the reference counter file guarding the checkout.
func (s *Store) CounterPath(repo, project string) string {
	return refcount.Path(s.RepoDir(repo), project)
}

// FindProject reports whether project has a checkout in the store.
func (s *Store) FindProject(repo, project string) (string, bool) {
	dir := s.ProjectDir(repo, project)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}

// EnsureRepoDir creates the repository vault if needed.
func (s *Store) EnsureRepoDir(repo string) error {
	if err := os.MkdirAll(s.RepoDir(repo), 0o755); err != nil {
		return fmt.Errorf("create checkout store: %w", err)
	}
	return nil
}

// Acquire registers one live reference to the checkout.
func (s *Store) Acquire(repo, project string) error {
	if err := s.EnsureRepoDir(repo); err != nil {
		return err
	}
	_, err := refcount.Adjust(s.CounterPath(repo, project), refcount.Increment)
	return err
}

// Release drops one reference to the checkout.
func (s *Store) Release(repo, project string) error {
	_, err := refcount.Adjust(s.CounterPath(repo, project), refcount.Decrement)
	return err
}

// Teardown destroys the checkout, gated on the reference counter: if
// any other process holds an outstanding reference the removal is
// refused with ErrInUse rather than racing ahead.
func (s *Store) Teardown(repo, project string) error {
	counter := s.CounterPath(repo, project)
	refs, err := refcount.Adjust(counter, refcount.DeleteIfZero)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%s has %d live reference(s): %w", project, refs, ErrInUse)
	}

	if dir, ok := s.FindProject(repo, project); ok {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove checkout %s: %w", dir, err)
		}
	}
	return refcount.Remove(counter)
}
