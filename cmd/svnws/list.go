package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/output"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/ui/static"
	"github.com/svnws/svnws/internal/ui/styles"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List projects in the repository",
		GroupID: GroupProject,
		Args:    cobra.NoArgs,
		Long: `List the projects of the repository with their branches, the current
project first. With --all soft-deleted projects are included, mined
from the repository history.`,
		Example: `  svnws list
  svnws list --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}

			names, err := a.activeProjects(ctx)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(names))
			active := make(map[string]bool, len(names))
			for _, name := range names {
				active[name] = true
				row, err := a.projectRow(ctx, name)
				if err != nil {
					return err
				}
				if name == a.ws.ProjectName {
					rows = append([][]string{row}, rows...)
				} else {
					rows = append(rows, row)
				}
			}

			if all {
				deleted, err := a.deletedProjects(ctx, active)
				if err != nil {
					return err
				}
				for _, name := range deleted {
					rows = append(rows, static.ProjectTableRow(name, true, false, "", 0, ""))
				}
			}

			if len(rows) == 0 {
				output.FromContext(ctx).Println("No projects found")
				return nil
			}
			output.FromContext(ctx).Print(static.RenderTable(static.ProjectTableHeaders, rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include soft-deleted projects")

	return cmd
}

func (a *app) projectRow(ctx context.Context, name string) ([]string, error) {
	branches, err := a.projectBranches(ctx, name)
	if err != nil {
		return nil, err
	}

	url := a.ws.ProjectRootURL(name)
	var revision uint64
	if raw, err := a.client.InfoItem(ctx, "last-changed-revision", url); err == nil {
		revision, _ = strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	}

	current := name == a.ws.ProjectName
	return static.ProjectTableRow(name, false, current, branches, revision, url), nil
}

// projectBranches renders the branch cell: trunk first, then the
// branches/ entries, with the working copy's branch marked.
func (a *app) projectBranches(ctx context.Context, name string) (string, error) {
	currentBranch := ""
	if name == a.ws.ProjectName {
		branch, err := a.ws.CurrentBranch(ctx)
		if err != nil {
			return "", err
		}
		currentBranch = branch
	}

	names := []string{"trunk"}
	out, err := a.client.List(ctx, a.ws.BranchesURL(name))
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, "/") {
			continue
		}
		names = append(names, strings.TrimSuffix(line, "/"))
	}

	cells := make([]string, 0, len(names))
	for _, branch := range names {
		cell := styles.BranchSymbol(branch) + " " + branch
		if branch == currentBranch {
			cell = styles.AccentStyle.Render(styles.CurrentSymbols().Current + " " + branch)
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, "  "), nil
}

// deletedProjects mines the repository log for projects whose top-level
// directory was deleted and never recreated.
func (a *app) deletedProjects(ctx context.Context, active map[string]bool) ([]string, error) {
	entries, err := a.client.XMLLog(ctx, svn.LogDefault, a.ws.RepoRootURL)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]bool)
	for _, e := range entries {
		for _, p := range e.Paths {
			if p.Action != "D" {
				continue
			}
			name, _, _ := strings.Cut(strings.TrimPrefix(p.Path, "/"), "/")
			if name == "" || active[name] || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}
