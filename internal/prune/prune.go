// Package prune permanently erases a project's history by streaming a
// full repository dump through a path-exclusion filter into a fresh
// repository and atomically swapping it in for the original.
//
// The swap keeps the old repository as a backup; the one compensating
// action in the tool restores it if the final rename fails, since a
// half-swapped repository would be unrecoverable.
package prune

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/svnws/svnws/internal/log"
)

// Job describes one repository-rewrite attempt.
type Job struct {
	// RepoPath is the repository's local filesystem path.
	RepoPath string
	// Project is the top-level project name whose history is erased.
	Project string
}

// TempPath is where the filtered repository is built.
func (j Job) TempPath() string { return j.RepoPath + "_gc" }

// BackupPath is where the original repository lands after the swap.
// It persists on success as a safety artifact.
func (j Job) BackupPath() string { return j.RepoPath + "_backup" }

// Pruner runs the dump-filter-load pipeline. Tool names are fields so
// tests can substitute stand-ins.
type Pruner struct {
	Admin  string
	Filter string
}

// NewPruner returns a pruner using the stock Subversion admin tools.
func NewPruner() *Pruner {
	return &Pruner{Admin: "svnadmin", Filter: "svndumpfilter"}
}

// Run rewrites the repository without job.Project and swaps the result
// into place. On any failure before the swap the original repository is
// untouched; a failure during the swap restores it from the backup.
func (p *Pruner) Run(ctx context.Context, job Job) error {
	if err := p.buildFiltered(ctx, job); err != nil {
		return err
	}
	return p.swap(job)
}

// buildFiltered creates the temporary repository and fills it through
// the three-stage pipe. The stages run concurrently; backpressure is
// the pipes' own. A failing upstream stage closes its pipe, which the
// downstream stage reports as a failure of its own.
func (p *Pruner) buildFiltered(ctx context.Context, job Job) error {
	logger := log.FromContext(ctx)

	if err := os.RemoveAll(job.TempPath()); err != nil {
		return fmt.Errorf("clear stale temp repository: %w", err)
	}
	if err := p.run(ctx, p.Admin, "create", job.TempPath()); err != nil {
		return fmt.Errorf("create temp repository: %w", err)
	}

	dump := exec.CommandContext(ctx, p.Admin, "dump", job.RepoPath, "--quiet")
	filter := exec.CommandContext(ctx, p.Filter,
		"exclude", job.Project, "--drop-empty-revs", "--renumber-revs", "--quiet")
	load := exec.CommandContext(ctx, p.Admin, "load", job.TempPath(), "--quiet", "--ignore-uuid")

	var dumpErr, filterErr, loadErr bytes.Buffer
	dump.Stderr = &dumpErr
	filter.Stderr = &filterErr
	load.Stderr = &loadErr
	load.Stdout = io.Discard

	dumpOut, err := dump.StdoutPipe()
	if err != nil {
		return fmt.Errorf("pipe dump: %w", err)
	}
	filter.Stdin = dumpOut
	filterOut, err := filter.StdoutPipe()
	if err != nil {
		return fmt.Errorf("pipe filter: %w", err)
	}
	load.Stdin = filterOut

	logger.Debug("prune pipeline",
		"repo", job.RepoPath, "exclude", job.Project, "into", job.TempPath())

	for _, c := range []*exec.Cmd{dump, filter, load} {
		if err := c.Start(); err != nil {
			return fmt.Errorf("start %s: %w", c.Path, err)
		}
	}

	var g errgroup.Group
	g.Go(func() error { return stageResult("dump repository", dump, &dumpErr) })
	g.Go(func() error { return stageResult("filter history", filter, &filterErr) })
	g.Go(func() error { return stageResult("load filtered history", load, &loadErr) })
	return g.Wait()
}

func stageResult(name string, c *exec.Cmd, stderr *bytes.Buffer) error {
	if err := c.Wait(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %s", name, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// swap renames the original aside and the filtered repository into
// place. Failure of the second rename triggers the compensating
// restore before the error surfaces.
func (p *Pruner) swap(job Job) error {
	if err := os.RemoveAll(job.BackupPath()); err != nil {
		return fmt.Errorf("clear previous backup: %w", err)
	}
	if err := os.Rename(job.RepoPath, job.BackupPath()); err != nil {
		return fmt.Errorf("move repository to backup: %w", err)
	}
	if err := os.Rename(job.TempPath(), job.RepoPath); err != nil {
		if restoreErr := os.Rename(job.BackupPath(), job.RepoPath); restoreErr != nil {
			return fmt.Errorf("swap failed (%v) and backup restore failed: %w", err, restoreErr)
		}
		return fmt.Errorf("swap filtered repository (backup restored): %w", err)
	}
	return nil
}

func (p *Pruner) run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	c := exec.CommandContext(ctx, name, args...)
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	return nil
}
