package conflict

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/svn/svntest"
)

func alwaysChoose(d Decision) Chooser {
	return ChooserFunc(func(Item) (Decision, error) { return d, nil })
}

func TestDetect(t *testing.T) {
	t.Parallel()

	entries := []svn.StatusEntry{
		{Path: "ok.c", Item: svn.ItemNormal},
		{Path: "text.c", Item: svn.ItemConflicted},
		{Path: "props.c", Item: svn.ItemNormal, PropsConflicted: true},
		{Path: "moved.c", Item: svn.ItemMissing, TreeConflicted: true},
		{Path: "blocked", Item: svn.ItemObstructed},
		{Path: ".", Item: svn.ItemIncomplete},
	}

	got := Detect(entries)
	want := []Item{
		{Path: "text.c", Kind: Standard},
		{Path: "props.c", Kind: Standard},
		{Path: "moved.c", Kind: TreeConflict},
		{Path: "blocked", Kind: Obstructed},
		{Path: ".", Kind: Incomplete},
	}
	if len(got) != len(want) {
		t.Fatalf("Detect() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Detect()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func conflictStatusXML(inner string) string {
	return `<?xml version="1.0"?><status><target path=".">` + inner + `</target></status>`
}

func TestResolveAllNoConflictsIsNoop(t *testing.T) {
	t.Parallel()

	r := &svntest.Runner{}
	r.Stub("svn status --xml", conflictStatusXML(`<entry path="a.c"><wc-status item="modified" props="none"></wc-status></entry>`), nil)

	prompted := false
	choose := ChooserFunc(func(Item) (Decision, error) {
		prompted = true
		return KeepMine, nil
	})
	res := NewResolver(svn.NewClientWithRunner(r), choose, t.TempDir())

	if err := res.ResolveAll(context.Background()); err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if prompted {
		t.Error("ResolveAll prompted with no conflicts present")
	}
	if len(r.Calls()) != 1 {
		t.Errorf("ResolveAll ran %d commands, want only the status pass", len(r.Calls()))
	}
}

func TestResolveStandard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		decision Decision
		want     string
	}{
		{name: "keep mine", decision: KeepMine, want: "svn resolve --accept mine-full text.c"},
		{name: "discard mine", decision: DiscardMine, want: "svn resolve --accept theirs-full text.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &svntest.Runner{}
			r.Stub("svn status --xml", conflictStatusXML(`<entry path="text.c"><wc-status item="conflicted" props="none"></wc-status></entry>`), nil)
			res := NewResolver(svn.NewClientWithRunner(r), alwaysChoose(tt.decision), t.TempDir())

			if err := res.ResolveAll(context.Background()); err != nil {
				t.Fatalf("ResolveAll: %v", err)
			}
			if !r.CalledWith(tt.want) {
				t.Errorf("commands = %v, want %q", r.Calls(), tt.want)
			}
		})
	}
}

func TestResolveTreeConflict(t *testing.T) {
	t.Parallel()

	xml := conflictStatusXML(`<entry path="moved.c"><wc-status item="missing" props="none" tree-conflicted="true"></wc-status></entry>`)

	t.Run("keep mine force-registers local state", func(t *testing.T) {
		t.Parallel()
		r := &svntest.Runner{}
		r.Stub("svn status --xml", xml, nil)
		res := NewResolver(svn.NewClientWithRunner(r), alwaysChoose(KeepMine), t.TempDir())

		if err := res.ResolveAll(context.Background()); err != nil {
			t.Fatalf("ResolveAll: %v", err)
		}
		for _, want := range []string{
			"svn resolve --accept working moved.c",
			"svn add --force moved.c",
		} {
			if !r.CalledWith(want) {
				t.Errorf("missing %q in %v", want, r.Calls())
			}
		}
	})

	t.Run("discard mine reverts and re-syncs", func(t *testing.T) {
		t.Parallel()
		r := &svntest.Runner{}
		r.Stub("svn status --xml", xml, nil)
		res := NewResolver(svn.NewClientWithRunner(r), alwaysChoose(DiscardMine), t.TempDir())

		if err := res.ResolveAll(context.Background()); err != nil {
			t.Fatalf("ResolveAll: %v", err)
		}
		for _, want := range []string{
			"svn resolve --accept working moved.c",
			"svn revert -R moved.c",
			"svn update moved.c",
		} {
			if !r.CalledWith(want) {
				t.Errorf("missing %q in %v", want, r.Calls())
			}
		}
	})
}

func TestResolveObstructed(t *testing.T) {
	t.Parallel()

	xml := conflictStatusXML(`<entry path="blocked"><wc-status item="obstructed" props="none"></wc-status></entry>`)

	t.Run("keep mine swaps version-control records", func(t *testing.T) {
		t.Parallel()
		r := &svntest.Runner{}
		r.Stub("svn status --xml", xml, nil)
		res := NewResolver(svn.NewClientWithRunner(r), alwaysChoose(KeepMine), t.TempDir())

		if err := res.ResolveAll(context.Background()); err != nil {
			t.Fatalf("ResolveAll: %v", err)
		}
		for _, want := range []string{
			"svn delete --keep-local --force blocked",
			"svn add --force blocked",
		} {
			if !r.CalledWith(want) {
				t.Errorf("missing %q in %v", want, r.Calls())
			}
		}
	})

	t.Run("discard mine removes the local object", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		obstruction := filepath.Join(root, "blocked")
		if err := os.MkdirAll(filepath.Join(obstruction, "sub"), 0o755); err != nil {
			t.Fatal(err)
		}

		r := &svntest.Runner{}
		r.Stub("svn status --xml", xml, nil)
		res := NewResolver(svn.NewClientWithRunner(r), alwaysChoose(DiscardMine), root)

		if err := res.ResolveAll(context.Background()); err != nil {
			t.Fatalf("ResolveAll: %v", err)
		}
		if _, err := os.Stat(obstruction); !os.IsNotExist(err) {
			t.Error("obstructing object still exists after discard")
		}
		for _, want := range []string{
			"svn revert blocked",
			"svn update blocked",
		} {
			if !r.CalledWith(want) {
				t.Errorf("missing %q in %v", want, r.Calls())
			}
		}
	})
}

func TestResolveIncompleteAbortsBeforePrompting(t *testing.T) {
	t.Parallel()

	r := &svntest.Runner{}
	r.Stub("svn status --xml", conflictStatusXML(
		`<entry path="."><wc-status item="incomplete" props="none"></wc-status></entry>`+
			`<entry path="text.c"><wc-status item="conflicted" props="none"></wc-status></entry>`,
	), nil)

	prompted := false
	choose := ChooserFunc(func(Item) (Decision, error) {
		prompted = true
		return KeepMine, nil
	})
	res := NewResolver(svn.NewClientWithRunner(r), choose, t.TempDir())

	err := res.ResolveAll(context.Background())
	if !errors.Is(err, ErrIncompleteWorkingCopy) {
		t.Fatalf("ResolveAll err = %v, want ErrIncompleteWorkingCopy", err)
	}
	if prompted {
		t.Error("operator was prompted despite an incomplete working copy")
	}
	if r.CalledWith("svn resolve") {
		t.Error("resolution commands ran against a broken working copy")
	}
}

func TestChooserErrorPropagates(t *testing.T) {
	t.Parallel()

	r := &svntest.Runner{}
	r.Stub("svn status --xml", conflictStatusXML(`<entry path="text.c"><wc-status item="conflicted" props="none"></wc-status></entry>`), nil)

	cancelled := errors.New("cancelled")
	choose := ChooserFunc(func(Item) (Decision, error) { return 0, cancelled })
	res := NewResolver(svn.NewClientWithRunner(r), choose, t.TempDir())

	if err := res.ResolveAll(context.Background()); !errors.Is(err, cancelled) {
		t.Errorf("ResolveAll err = %v, want the chooser's error", err)
	}
}
