package ignore

import (
	"context"
	"fmt"

	"github.com/svnws/svnws/internal/svn"
)

// Externals link connecting the working copy's .gitignore to the
// canonical copy at the project root.
func externalsLink(project string) string {
	return fmt.Sprintf("^/%s/%s %s", project, RuleFile, RuleFile)
}

// Synchronizer keeps the working copy's ignore file current with the
// repository copy. It must run before every dirty check: a stale or
// missing ignore file flags generated files as unversioned, or worse,
// silently versions them.
type Synchronizer struct {
	client  *svn.Client
	project string
}

// NewSynchronizer returns a synchronizer for the named project.
func NewSynchronizer(client *svn.Client, project string) *Synchronizer {
	return &Synchronizer{client: client, project: project}
}

// EnsureCurrent reconciles the working copy's ignore file with the
// repository copy. Idempotent; safe to run when everything is already
// current.
//
// Present in the working copy: update it, preferring local content over
// conflict markers, and commit it back when it carries local edits.
// Absent: establish the externals link to the canonical project-root
// copy, commit the linkage, and update to materialize the file.
func (s *Synchronizer) EnsureCurrent(ctx context.Context) error {
	entries, err := s.client.Status(ctx, false, RuleFile)
	if err != nil {
		return fmt.Errorf("check ignore file status: %w", err)
	}

	if len(entries) == 0 {
		if err := s.client.PropSet(ctx, "svn:externals", externalsLink(s.project), "."); err != nil {
			return fmt.Errorf("link ignore file: %w", err)
		}
		if _, err := s.client.Commit(ctx, "Update svn:externals for "+RuleFile, "."); err != nil {
			return fmt.Errorf("commit ignore link: %w", err)
		}
		if err := s.client.Update(ctx, "."); err != nil {
			return fmt.Errorf("materialize ignore file: %w", err)
		}
		return nil
	}

	if err := s.client.Update(ctx, RuleFile, "--accept", "working"); err != nil {
		return fmt.Errorf("update ignore file: %w", err)
	}
	if entries[0].Item == svn.ItemModified {
		if _, err := s.client.Commit(ctx, "Auto update "+RuleFile, RuleFile); err != nil {
			return fmt.Errorf("commit ignore file: %w", err)
		}
	}
	return nil
}

// RepointDriftedLink re-establishes the externals link when the ignore
// file reports as switched, meaning the link points at some other
// project's copy. The property is dropped, the working copy updated to
// detach the stale target, and the link set and updated again.
func (s *Synchronizer) RepointDriftedLink(ctx context.Context, entries []svn.StatusEntry) error {
	drifted := false
	for _, e := range entries {
		if e.Switched && e.Path == RuleFile {
			drifted = true
			break
		}
	}
	if !drifted {
		return nil
	}

	if err := s.client.PropDel(ctx, "svn:externals", "."); err != nil {
		return fmt.Errorf("drop drifted ignore link: %w", err)
	}
	if err := s.client.Update(ctx, "."); err != nil {
		return fmt.Errorf("detach drifted ignore link: %w", err)
	}
	if err := s.client.PropSet(ctx, "svn:externals", externalsLink(s.project), "."); err != nil {
		return fmt.Errorf("relink ignore file: %w", err)
	}
	if err := s.client.Update(ctx, "."); err != nil {
		return fmt.Errorf("materialize relinked ignore file: %w", err)
	}
	return nil
}
