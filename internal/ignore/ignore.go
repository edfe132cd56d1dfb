// Package ignore compiles the project's .gitignore into a matcher and
// keeps the file itself synchronized with the repository copy.
//
// The ignore file is authoritative for dirty classification: an
// unversioned path only counts as clean when a rule matches it, and a
// matched directory only counts when every file beneath it matches too.
package ignore

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// RuleFile is the well-known ignore file name at the working copy root.
const RuleFile = ".gitignore"

// RuleSet is a compiled matcher over one ignore file. Rebuilt for every
// classification pass; upstream may change the file between commands.
type RuleSet struct {
	root    string
	matcher gitignore.Matcher
}

// Load reads and compiles root/.gitignore. A missing ignore file is a
// hard error: without it every generated file would classify as dirty.
func Load(root string) (*RuleSet, error) {
	f, err := os.Open(filepath.Join(root, RuleFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no ignore file at %s", filepath.Join(root, RuleFile))
		}
		return nil, fmt.Errorf("open ignore file: %w", err)
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file: %w", err)
	}

	return &RuleSet{root: root, matcher: gitignore.NewMatcher(patterns)}, nil
}

// Match reports whether the rule set matches path. The path is taken
// relative to the rule set root; absolute paths are rebased first.
func (rs *RuleSet) Match(path string, isDir bool) bool {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(rs.root, path)
		if err != nil {
			return false
		}
		rel = r
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	return rs.matcher.Match(parts, isDir)
}

// UnignoredFiles walks dir and returns every file that no rule matches.
// Version-control administrative directories are skipped. Files are
// checked individually rather than pruning matched directories so that
// negation rules inside an ignored directory still take effect.
func (rs *RuleSet) UnignoredFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name == ".svn" || name == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !rs.Match(path, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

// AllIgnored reports whether every file under dir matches an ignore
// rule. A directory can match a rule itself while still containing
// files no rule covers; those files keep the working copy dirty.
func (rs *RuleSet) AllIgnored(dir string) (bool, error) {
	files, err := rs.UnignoredFiles(dir)
	if err != nil {
		return false, err
	}
	return len(files) == 0, nil
}
