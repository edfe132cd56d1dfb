package main

import (
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	t.Parallel()

	got := versionString()
	if !strings.HasPrefix(got, "svnws ") {
		t.Errorf("versionString() = %q, want svnws prefix", got)
	}
	if !strings.Contains(got, version) {
		t.Errorf("versionString() = %q, want to contain version %q", got, version)
	}
	if !strings.Contains(got, buildCommit) {
		t.Errorf("versionString() = %q, want to contain commit %q", got, buildCommit)
	}
}
