// Package status decides whether a working copy is dirty.
//
// An entry is clean when the backend already considers it settled
// (normal, none, external) or when it is unversioned/ignored and the
// project's ignore rules cover it entirely. Everything else — modified,
// missing, conflicted, obstructed, incomplete — keeps the copy dirty.
package status

import (
	"context"
	"os"
	"path/filepath"

	"github.com/svnws/svnws/internal/ignore"
	"github.com/svnws/svnws/internal/svn"
)

// Classifier performs one classification pass over a working copy.
// Build a fresh one per command; the rule set must be compiled after
// the ignore synchronizer ran, never cached across commands.
type Classifier struct {
	client *svn.Client
	rules  *ignore.RuleSet
	root   string
}

// New returns a classifier for the working copy rooted at root.
func New(client *svn.Client, rules *ignore.RuleSet, root string) *Classifier {
	return &Classifier{client: client, rules: rules, root: root}
}

// Entries fetches the full status of the working copy, ignored entries
// included so the ignore rules can be validated against them.
func (c *Classifier) Entries(ctx context.Context) ([]svn.StatusEntry, error) {
	return c.client.Status(ctx, true)
}

// IsDirty reports whether any entry carries uncommitted or unaccounted
// state.
func (c *Classifier) IsDirty(ctx context.Context) (bool, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		clean, err := c.EntryClean(e)
		if err != nil {
			return false, err
		}
		if !clean {
			return true, nil
		}
	}
	return false, nil
}

// EntryClean reports whether a single entry counts as clean.
func (c *Classifier) EntryClean(e svn.StatusEntry) (bool, error) {
	if e.TreeConflicted || e.PropsConflicted {
		return false, nil
	}
	switch e.Item {
	case svn.ItemNormal, svn.ItemNone, svn.ItemExternal:
		return true, nil
	case svn.ItemUnversioned, svn.ItemIgnored:
		return c.ignoredClean(e.Path)
	default:
		return false, nil
	}
}

// ignoredClean checks that the ignore rules fully cover path. A matched
// directory is only clean when every file beneath it matches too; an
// ignore rule on the directory says nothing about files a negation rule
// carves back out.
func (c *Classifier) ignoredClean(path string) (bool, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(c.root, path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			// Reported by the backend but already gone locally.
			return c.rules.Match(path, false), nil
		}
		return false, err
	}
	if !c.rules.Match(path, info.IsDir()) {
		return false, nil
	}
	if info.IsDir() {
		return c.rules.AllIgnored(abs)
	}
	return true, nil
}
