// Package commit implements the multi-phase commit protocol.
//
// Every phase blocks and every failure short-circuits: stage additions
// and deletions, reconcile with upstream, resolve conflicts, commit,
// reconcile once more to close the submit race window, and clean up.
// There is no automatic rollback; the working copy is left exactly as
// the backend left it.
package commit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/svnws/svnws/internal/conflict"
	"github.com/svnws/svnws/internal/ignore"
	"github.com/svnws/svnws/internal/svn"
)

// Result is the outcome of one protocol run.
type Result int

const (
	// Success means a non-empty change set was transmitted.
	Success Result = iota
	// NoChanges means the staged change set was empty; not an error.
	NoChanges
)

func (r Result) String() string {
	if r == NoChanges {
		return "no changes"
	}
	return "success"
}

// Orchestrator runs the commit protocol against one working copy.
type Orchestrator struct {
	client  *svn.Client
	sync    *ignore.Synchronizer
	choose  conflict.Chooser
	root    string
	project string
}

// New returns an orchestrator for the working copy of project rooted
// at root.
func New(client *svn.Client, project, root string, choose conflict.Chooser) *Orchestrator {
	return &Orchestrator{
		client:  client,
		sync:    ignore.NewSynchronizer(client, project),
		choose:  choose,
		root:    root,
		project: project,
	}
}

// Commit runs the full protocol with the supplied message.
func (o *Orchestrator) Commit(ctx context.Context, message string) (Result, error) {
	if err := o.stage(ctx); err != nil {
		return NoChanges, err
	}

	if err := o.reconcile(ctx); err != nil {
		return NoChanges, err
	}

	transcript, err := o.client.Commit(ctx, message)
	if err != nil {
		return NoChanges, fmt.Errorf("commit: %w", err)
	}

	// A concurrent upstream commit can land between the reconcile above
	// and the submit; one more pass absorbs that window.
	if err := o.reconcile(ctx); err != nil {
		return NoChanges, err
	}

	if err := o.client.Cleanup(ctx); err != nil {
		return NoChanges, fmt.Errorf("cleanup: %w", err)
	}

	if transcript == "" {
		return NoChanges, nil
	}
	return Success, nil
}

// stage schedules unversioned-but-relevant paths for addition and
// missing paths for removal, then re-points the ignore link if it
// drifted to another project.
func (o *Orchestrator) stage(ctx context.Context) error {
	if err := o.sync.EnsureCurrent(ctx); err != nil {
		return err
	}

	rules, err := ignore.Load(o.root)
	if err != nil {
		return err
	}

	entries, err := o.client.Status(ctx, true)
	if err != nil {
		return fmt.Errorf("stage status: %w", err)
	}

	var adds, dels []string
	for _, e := range entries {
		switch e.Item {
		case svn.ItemUnversioned, svn.ItemIgnored:
			staged, err := o.stageCandidates(rules, e.Path)
			if err != nil {
				return err
			}
			adds = append(adds, staged...)
		case svn.ItemMissing:
			dels = append(dels, e.Path)
		}
	}

	if len(adds) > 0 {
		if err := o.client.Add(ctx, adds...); err != nil {
			return fmt.Errorf("stage additions: %w", err)
		}
	}
	if len(dels) > 0 {
		if err := o.client.Delete(ctx, dels...); err != nil {
			return fmt.Errorf("stage removals: %w", err)
		}
	}

	after, err := o.client.Status(ctx, false)
	if err != nil {
		return fmt.Errorf("post-stage status: %w", err)
	}
	return o.sync.RepointDriftedLink(ctx, after)
}

// stageCandidates expands one unversioned path into the paths to add.
// Ignore-matched paths stage nothing. A directory stages only its
// unignored descendant files; adding a contained file versions its
// parents implicitly, so the directory entry itself is never added.
func (o *Orchestrator) stageCandidates(rules *ignore.RuleSet, path string) ([]string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(o.root, path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("inspect %s: %w", path, err)
	}

	if rules.Match(path, info.IsDir()) {
		return nil, nil
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := rules.UnignoredFiles(abs)
	if err != nil {
		return nil, err
	}
	staged := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(o.root, f)
		if err != nil {
			return nil, fmt.Errorf("rebase %s: %w", f, err)
		}
		staged = append(staged, filepath.ToSlash(rel))
	}
	return staged, nil
}

// reconcile pulls upstream state non-destructively and clears whatever
// conflicts that introduced.
func (o *Orchestrator) reconcile(ctx context.Context) error {
	if err := o.client.UpdatePostpone(ctx); err != nil {
		return fmt.Errorf("reconcile update: %w", err)
	}
	resolver := conflict.NewResolver(o.client, o.choose, o.root)
	return resolver.ResolveAll(ctx)
}
