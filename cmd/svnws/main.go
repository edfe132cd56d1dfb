package main

import (
	"fmt"
	"runtime"
)

// Version information - set by goreleaser
var (
	version     = "dev"
	buildCommit = "none"
	date        = "unknown"
)

func main() {
	Execute()
}

// versionString returns the version string.
func versionString() string {
	return fmt.Sprintf("svnws %s (%s, %s, %s)", version, buildCommit[:min(7, len(buildCommit))], date, runtime.Version())
}
