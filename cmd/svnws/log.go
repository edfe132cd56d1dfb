package main

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/format"
	"github.com/svnws/svnws/internal/output"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/ui/static"
	"github.com/svnws/svnws/internal/ui/styles"
)

func newLogCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "log",
		Short:   "Show project history",
		GroupID: GroupWorkspace,
		Args:    cobra.NoArgs,
		Long: `Show the revision history of the current branch. Rollbacks, branch
creations and merges are annotated with their origin, and the revision
the working copy sits on is marked.`,
		Example: `  svnws log        # History since the branch was created
  svnws log --all  # Full history including pre-branch revisions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd.Context(), all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include revisions from before the branch was created")

	return cmd
}

func runLog(ctx context.Context, all bool) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}

	wc, err := a.ws.WorkingCopyURL(ctx)
	if err != nil {
		return err
	}
	currentBranch, err := a.ws.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	kind := svn.LogProject
	if all {
		kind = svn.LogProjectFull
	}
	entries, err := a.client.XMLLog(ctx, kind, wc)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, static.LogTableRow(
			e.Revision,
			e.Revision == a.ws.CurrentRevision.Num(),
			logDate(e.Date),
			a.annotateMessage(ctx, e, currentBranch),
		))
	}

	if len(rows) == 0 {
		output.FromContext(ctx).Println("No history found")
		return nil
	}
	output.FromContext(ctx).Print(static.RenderTable(static.LogTableHeaders, rows))
	return nil
}

func logDate(raw string) string {
	t, err := format.ParseSVNTime(raw)
	if err != nil {
		return raw
	}
	return format.RelativeTime(t)
}

// annotateMessage decorates synthetic commit messages with what they
// actually did: where a rollback reverted to, what a branch was created
// from, which branch a merge pulled in.
func (a *app) annotateMessage(ctx context.Context, e svn.LogEntry, currentBranch string) string {
	switch {
	case strings.HasPrefix(e.Message, "[WS-ROLLBACK]"):
		tag := strings.TrimSpace(strings.TrimPrefix(e.Message, "[WS-ROLLBACK]"))
		return styles.WarningStyle.Render("↩ Reverted from " + a.rollbackSource(ctx, tag))
	case strings.HasPrefix(e.Message, "[WS-BRANCH] Create "):
		branch := strings.TrimPrefix(e.Message, "[WS-BRANCH] Create ")
		return styles.SuccessStyle.Render("⎇ Branch created from " + a.branchSource(ctx, branch))
	}

	if source, ok := a.mergeSource(e, currentBranch); ok {
		return styles.InfoStyle.Render("⇄ Merged from " + source)
	}
	return strings.TrimSpace(e.Message)
}

// mergeSource inspects merge-tracked child revisions for a path on
// another branch of the same project.
func (a *app) mergeSource(e svn.LogEntry, currentBranch string) (string, bool) {
	for _, child := range e.Children {
		for _, p := range child.Paths {
			if branch, ok := a.ws.BranchFromPath(p.Path); ok && branch != currentBranch {
				return branch, true
			}
		}
	}
	return "", false
}

// rollbackSource resolves the revision a rollback tag anchors to.
func (a *app) rollbackSource(ctx context.Context, tagPath string) string {
	url := a.ws.ProjectRootURL(a.ws.ProjectName) + "/" + strings.TrimPrefix(tagPath, "/")
	entries, err := a.client.XMLLog(ctx, svn.LogCopyAnchor, url)
	if err != nil {
		return "unknown revision"
	}
	src, ok := svn.CopySource(entries)
	if !ok {
		return "unknown revision"
	}
	return fmt.Sprintf("r%d", src.CopyFromRev)
}

// branchSource resolves what a branch was copied from.
func (a *app) branchSource(ctx context.Context, branch string) string {
	entries, err := a.client.XMLLog(ctx, svn.LogCopyOrigin, a.ws.BranchURL(branch))
	if err != nil {
		return branch
	}
	src, ok := svn.CopySource(entries)
	if !ok {
		return branch
	}
	return fmt.Sprintf("%s@r%d", path.Base(src.CopyFromPath), src.CopyFromRev)
}
