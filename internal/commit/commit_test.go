package commit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/svnws/svnws/internal/conflict"
	"github.com/svnws/svnws/internal/ignore"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/svn/svntest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func keepMine(conflict.Item) (conflict.Decision, error) { return conflict.KeepMine, nil }

const gitignoreOKXML = `<?xml version="1.0"?>
<status>
<target path=".gitignore">
<entry path=".gitignore">
<wc-status item="normal" props="none">
</wc-status>
</entry>
</target>
</status>`

const cleanStatusXML = `<?xml version="1.0"?><status><target path="."></target></status>`

func statusDoc(inner string) string {
	return `<?xml version="1.0"?><status><target path=".">` + inner + `</target></status>`
}

// newOrchestrator wires a fake backend around a temp working copy with
// rules ignoring *.o files.
func newOrchestrator(t *testing.T, r *svntest.Runner) (*Orchestrator, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ignore.RuleFile), "*.o\nbuild/\n")

	r.Stub("svn status --xml .gitignore", gitignoreOKXML, nil)
	r.Stub("svn status --xml --no-ignore", cleanStatusXML, nil)
	r.Stub("svn status --xml", cleanStatusXML, nil)
	r.Stub("svn status --xml --no-ignore", cleanStatusXML, nil)
	r.Stub("svn status --xml .gitignore", gitignoreOKXML, nil)

	return New(svn.NewClientWithRunner(r), "widgets", root, conflict.ChooserFunc(keepMine)), root
}

func TestCommitNoChanges(t *testing.T) {
	t.Parallel()

	r := &svntest.Runner{}
	o, _ := newOrchestrator(t, r)
	r.Stub("svn commit -m", "", nil)

	res, err := o.Commit(context.Background(), "nothing to do")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if res != NoChanges {
		t.Errorf("Commit() = %v, want NoChanges", res)
	}
	if !r.CalledWith("svn cleanup .") {
		t.Error("housekeeping cleanup did not run")
	}
}

func TestCommitSuccess(t *testing.T) {
	t.Parallel()

	r := &svntest.Runner{}
	o, _ := newOrchestrator(t, r)
	r.Stub("svn commit -m", "Sending a.c\nCommitted revision 7.\n", nil)

	res, err := o.Commit(context.Background(), "change things")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if res != Success {
		t.Errorf("Commit() = %v, want Success", res)
	}
	if !r.CalledWith("svn commit -m change things") {
		t.Errorf("commit message not transmitted: %v", r.Calls())
	}

	// Reconcile runs before and after the submit.
	updates := 0
	for _, c := range r.Calls() {
		if c.String() == "svn update --accept postpone" {
			updates++
		}
	}
	if updates != 2 {
		t.Errorf("ran %d reconcile updates, want 2", updates)
	}
}

func TestCommitStagesAdditionsAndRemovals(t *testing.T) {
	t.Parallel()

	r := &svntest.Runner{}
	o, root := newOrchestrator(t, r)
	writeFile(t, filepath.Join(root, "notes.txt"), "")
	writeFile(t, filepath.Join(root, "main.o"), "")
	writeFile(t, filepath.Join(root, "newdir", "a.c"), "")
	writeFile(t, filepath.Join(root, "newdir", "a.o"), "")

	r.Stub("svn status --xml --no-ignore", statusDoc(
		`<entry path="notes.txt"><wc-status item="unversioned" props="none"></wc-status></entry>`+
			`<entry path="main.o"><wc-status item="ignored" props="none"></wc-status></entry>`+
			`<entry path="newdir"><wc-status item="unversioned" props="none"></wc-status></entry>`+
			`<entry path="gone.c"><wc-status item="missing" props="none"></wc-status></entry>`,
	), nil)
	r.Stub("svn commit -m", "Committed revision 8.\n", nil)

	res, err := o.Commit(context.Background(), "stage test")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if res != Success {
		t.Errorf("Commit() = %v, want Success", res)
	}

	var addLine, delLine string
	for _, c := range r.Calls() {
		line := c.String()
		if strings.HasPrefix(line, "svn add --parents") {
			addLine = line
		}
		if strings.HasPrefix(line, "svn delete") {
			delLine = line
		}
	}
	if addLine == "" {
		t.Fatal("no batch addition ran")
	}
	for _, want := range []string{"notes.txt", "newdir/a.c"} {
		if !strings.Contains(addLine, want) {
			t.Errorf("addition %q missing from %q", want, addLine)
		}
	}
	for _, banned := range []string{"main.o", "a.o"} {
		if strings.Contains(addLine, banned) {
			t.Errorf("ignore-matched %q staged in %q", banned, addLine)
		}
	}
	if delLine != "svn delete gone.c" {
		t.Errorf("removal batch = %q, want %q", delLine, "svn delete gone.c")
	}
}

func TestCommitShortCircuitsOnStageFailure(t *testing.T) {
	t.Parallel()

	r := &svntest.Runner{}
	o, root := newOrchestrator(t, r)
	writeFile(t, filepath.Join(root, "notes.txt"), "")

	stageErr := &svn.CommandError{Name: "svn", Args: []string{"add"}, Err: errors.New("E000001")}
	r.Stub("svn status --xml --no-ignore", statusDoc(
		`<entry path="notes.txt"><wc-status item="unversioned" props="none"></wc-status></entry>`,
	), nil)
	r.Stub("svn add", "", stageErr)

	if _, err := o.Commit(context.Background(), "doomed"); !errors.Is(err, stageErr) {
		t.Fatalf("Commit err = %v, want the staging failure", err)
	}
	if r.CalledWith("svn commit") {
		t.Error("commit transmitted after a staging failure")
	}
	if r.CalledWith("svn update --accept postpone") {
		t.Error("reconcile ran after a staging failure")
	}
}

func TestCommitAbortsOnIncompleteWorkingCopy(t *testing.T) {
	t.Parallel()

	r := &svntest.Runner{}
	o, _ := newOrchestrator(t, r)
	r.Stub("svn status --xml", statusDoc(
		`<entry path="."><wc-status item="incomplete" props="none"></wc-status></entry>`,
	), nil)

	if _, err := o.Commit(context.Background(), "broken"); !errors.Is(err, conflict.ErrIncompleteWorkingCopy) {
		t.Fatalf("Commit err = %v, want ErrIncompleteWorkingCopy", err)
	}
	if r.CalledWith("svn commit") {
		t.Error("commit transmitted against an incomplete working copy")
	}
}
