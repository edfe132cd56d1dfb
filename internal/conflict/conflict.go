// Package conflict enumerates conflicted paths and drives their
// interactive resolution.
//
// Every conflicted path is one of four kinds, and the kind fixes the
// backend command sequence for each of the two operator choices. An
// incomplete working copy is not resolvable at all; it aborts the whole
// pass so no further backend calls run against broken metadata.
package conflict

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/svnws/svnws/internal/svn"
)

// ErrIncompleteWorkingCopy means the working copy metadata is
// inconsistent from an interrupted operation. Run cleanup and retry;
// nothing here attempts an automatic fix.
var ErrIncompleteWorkingCopy = errors.New("working copy is in an incomplete state, run 'svn cleanup' and retry")

// Kind classifies a conflicted path.
type Kind int

const (
	// Standard is a textual or property content conflict.
	Standard Kind = iota
	// TreeConflict is a structural clash, e.g. local edit vs upstream delete.
	TreeConflict
	// Obstructed means a local filesystem object blocks the versioned one.
	Obstructed
	// Incomplete means the working copy metadata itself is inconsistent.
	Incomplete
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return "conflict"
	case TreeConflict:
		return "tree conflict"
	case Obstructed:
		return "obstruction"
	case Incomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// Item is one conflicted path awaiting resolution.
type Item struct {
	Path string
	Kind Kind
}

// Decision is the operator's answer for one item.
type Decision int

const (
	// KeepMine keeps the local content or object.
	KeepMine Decision = iota
	// DiscardMine discards local state and re-syncs from upstream.
	DiscardMine
)

// Chooser asks the operator how to resolve one item. Implementations
// report cancellation through a distinguished error so callers treat it
// as a neutral outcome.
type Chooser interface {
	Choose(item Item) (Decision, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(item Item) (Decision, error)

func (f ChooserFunc) Choose(item Item) (Decision, error) { return f(item) }

// Detect extracts conflicted items from status entries, in discovery
// order. Incomplete outranks tree conflicts, which outrank
// obstructions; a props conflict counts as a standard conflict.
func Detect(entries []svn.StatusEntry) []Item {
	var items []Item
	for _, e := range entries {
		switch {
		case e.Item == svn.ItemIncomplete:
			items = append(items, Item{Path: e.Path, Kind: Incomplete})
		case e.TreeConflicted:
			items = append(items, Item{Path: e.Path, Kind: TreeConflict})
		case e.Item == svn.ItemObstructed:
			items = append(items, Item{Path: e.Path, Kind: Obstructed})
		case e.Item == svn.ItemConflicted || e.PropsConflicted:
			items = append(items, Item{Path: e.Path, Kind: Standard})
		}
	}
	return items
}

// Resolver drives the per-item resolution protocol.
type Resolver struct {
	client *svn.Client
	choose Chooser
	root   string
}

// NewResolver returns a resolver operating on the working copy rooted
// at root.
func NewResolver(client *svn.Client, choose Chooser, root string) *Resolver {
	return &Resolver{client: client, choose: choose, root: root}
}

// ResolveAll enumerates conflicted items and resolves each in turn.
// No conflicts is a no-op, which makes the call idempotent after a
// successful pass. Resolved items stay resolved even when a later item
// fails; only the remainder is retried on the next invocation.
func (r *Resolver) ResolveAll(ctx context.Context) error {
	entries, err := r.client.Status(ctx, false)
	if err != nil {
		return fmt.Errorf("enumerate conflicts: %w", err)
	}
	for _, item := range Detect(entries) {
		if err := r.resolve(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolve(ctx context.Context, item Item) error {
	// No choice exists for a broken working copy; abort before prompting.
	if item.Kind == Incomplete {
		return fmt.Errorf("%s: %w", item.Path, ErrIncompleteWorkingCopy)
	}

	decision, err := r.choose.Choose(item)
	if err != nil {
		return err
	}

	switch item.Kind {
	case Standard:
		accept := "mine-full"
		if decision == DiscardMine {
			accept = "theirs-full"
		}
		return r.client.Resolve(ctx, accept, item.Path)

	case TreeConflict:
		if err := r.client.Resolve(ctx, "working", item.Path); err != nil {
			return err
		}
		if decision == DiscardMine {
			if err := r.client.Revert(ctx, "-R", item.Path); err != nil {
				return err
			}
			return r.client.Update(ctx, item.Path)
		}
		return r.client.AddForce(ctx, item.Path)

	case Obstructed:
		if decision == DiscardMine {
			if err := r.removeLocal(item.Path); err != nil {
				return err
			}
			if err := r.client.Revert(ctx, item.Path); err != nil {
				return err
			}
			return r.client.Update(ctx, item.Path)
		}
		if err := r.client.DeleteKeepLocal(ctx, item.Path); err != nil {
			return err
		}
		return r.client.AddForce(ctx, item.Path)

	default:
		return fmt.Errorf("unhandled conflict kind %d for %s", item.Kind, item.Path)
	}
}

// removeLocal deletes the obstructing filesystem object, if it still
// exists.
func (r *Resolver) removeLocal(path string) error {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.root, path)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("remove obstruction %s: %w", path, err)
	}
	return nil
}
