package svn

import (
	"strings"
	"testing"
)

const logXML = `<?xml version="1.0" encoding="UTF-8"?>
<log>
<logentry revision="12">
<date>2024-03-01T10:00:00.000000Z</date>
<paths>
<path action="D" kind="dir">/widgets/branches/feature-x</path>
</paths>
<msg>remove stale branch</msg>
</logentry>
<logentry revision="11">
<date>2024-02-28T09:00:00.000000Z</date>
<paths>
<path action="A" kind="dir" copyfrom-path="/widgets/trunk" copyfrom-rev="9">/widgets/branches/feature-x</path>
</paths>
<msg>branch for feature x</msg>
<logentry revision="8">
<date>2024-02-20T08:00:00.000000Z</date>
<msg>merged work</msg>
</logentry>
</logentry>
</log>
`

func TestParseLog(t *testing.T) {
	t.Parallel()

	entries, err := ParseLog([]byte(logXML))
	if err != nil {
		t.Fatalf("ParseLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ParseLog() returned %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Revision != 12 {
		t.Errorf("entries[0].Revision = %d, want 12", first.Revision)
	}
	if first.Message != "remove stale branch" {
		t.Errorf("entries[0].Message = %q", first.Message)
	}
	if len(first.Paths) != 1 || first.Paths[0].Action != "D" || first.Paths[0].Path != "/widgets/branches/feature-x" {
		t.Errorf("entries[0].Paths = %+v", first.Paths)
	}

	second := entries[1]
	if second.Paths[0].CopyFromPath != "/widgets/trunk" || second.Paths[0].CopyFromRev != 9 {
		t.Errorf("entries[1].Paths[0] copyfrom = %q@%d, want /widgets/trunk@9",
			second.Paths[0].CopyFromPath, second.Paths[0].CopyFromRev)
	}
	if len(second.Children) != 1 || second.Children[0].Revision != 8 {
		t.Errorf("entries[1].Children = %+v, want one child at r8", second.Children)
	}
}

func TestCopySource(t *testing.T) {
	t.Parallel()

	entries, err := ParseLog([]byte(logXML))
	if err != nil {
		t.Fatalf("ParseLog: %v", err)
	}

	src, ok := CopySource(entries)
	if !ok {
		t.Fatal("CopySource() found no copy origin")
	}
	if src.CopyFromPath != "/widgets/trunk" || src.CopyFromRev != 9 {
		t.Errorf("CopySource() = %q@%d, want /widgets/trunk@9", src.CopyFromPath, src.CopyFromRev)
	}

	if _, ok := CopySource(nil); ok {
		t.Error("CopySource(nil) reported a copy origin")
	}
}

func TestDeletionRevision(t *testing.T) {
	t.Parallel()

	entries, err := ParseLog([]byte(logXML))
	if err != nil {
		t.Fatalf("ParseLog: %v", err)
	}

	match := func(path string) bool {
		return strings.HasSuffix(path, "/branches/feature-x")
	}
	if got := DeletionRevision(entries, match); got != 12 {
		t.Errorf("DeletionRevision() = %d, want 12", got)
	}

	none := func(string) bool { return false }
	if got := DeletionRevision(entries, none); got != 0 {
		t.Errorf("DeletionRevision() with no match = %d, want 0", got)
	}
}
