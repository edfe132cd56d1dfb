package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/prune"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/ui"
	"github.com/svnws/svnws/internal/workspace"
)

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:               "delete NAME",
		Short:             "Delete a project",
		GroupID:           GroupProject,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Long: `Delete a project from the repository. By default the deletion is a
normal commit and the history stays intact; 'svnws restore' brings the
project back. With --force the project is erased from the entire
repository history through a dump, filter and load rewrite. That
cannot be undone.`,
		Example: `  svnws delete widgets           # History-preserving delete
  svnws delete widgets --force   # Erase from all of history`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			name := args[0]

			if err := svn.ValidateName(name); err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			if name == a.ws.ProjectName {
				return fmt.Errorf("cannot delete the current project, switch to another project first")
			}

			url := a.ws.ProjectRootURL(name)
			exists, err := a.client.URLExists(ctx, url)
			if err != nil {
				return fmt.Errorf("check project %s: %w", name, err)
			}

			if !force {
				if !exists {
					l.Printf("Project %s does not exist or is already deleted\n", name)
					return nil
				}
				l.Printf("This removes the project in the latest revision, history is preserved\n")
				l.Printf("Use --force to permanently delete the project\n")
				if err := a.client.Delete(ctx, url, "-m", "Delete project "+name); err != nil {
					return fmt.Errorf("delete project %s: %w", name, err)
				}
				l.Printf("Project %s is marked as deleted\n", name)
				return nil
			}

			return a.forceDelete(ctx, name)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Erase the project from the whole repository history")

	return cmd
}

// forceDelete rewrites the repository without the project. The working
// copy must sit on the latest revision: the rewrite renumbers history
// and an outdated copy could not be repaired afterwards.
func (a *app) forceDelete(ctx context.Context, name string) error {
	l := log.FromContext(ctx)

	repoPath := a.ws.RepoFSPath
	if repoPath == "" {
		repoPath = cfg.RepoDir
	}
	if repoPath == "" {
		return fmt.Errorf("history rewrite needs a local repository (file:// working copy or repo_dir in the config)")
	}
	if err := svn.CheckAdminTools(); err != nil {
		return err
	}

	if a.ws.ReviewState() {
		l.Printf("Not on the latest revision, the workspace must be switched first\n")
		ok, err := ui.Confirm("Continue to switch?")
		if err != nil {
			return err
		}
		if !ok {
			return ui.ErrCancelled
		}
		if err := a.switchToBranch(ctx, a.ws.ProjectName, "trunk"); err != nil {
			return err
		}
	}

	l.Printf("This operation will rewrite the entire repository history\n")
	l.Printf("Project %s will be permanently removed and cannot be restored\n", name)
	ok, err := ui.Confirm(fmt.Sprintf("Confirm to PERMANENTLY delete project %s", name))
	if err != nil {
		return err
	}
	if !ok {
		return ui.ErrCancelled
	}

	repo := a.repoName()
	if dir, found := a.store.FindProject(repo, name); found {
		if err := a.store.Teardown(repo, name); err != nil {
			if errors.Is(err, workspace.ErrInUse) {
				return fmt.Errorf("project %s: %w", name, err)
			}
			l.Printf("Failed to delete local checkout: %v\n", err)
			l.Printf("Delete it manually: %s\n", dir)
		}
	}

	st := newStepper("Rewriting repository")
	defer st.stop()

	job := prune.Job{RepoPath: repoPath, Project: name}
	if err := prune.NewPruner().Run(ctx, job); err != nil {
		return err
	}

	st.step("Repairing workspace")
	if err := a.ws.Repair(ctx); err != nil {
		return fmt.Errorf("repair workspace after rewrite: %w", err)
	}
	st.stop()

	l.Printf("Repository cleaned, original backed up at %s\n", job.BackupPath())
	return nil
}
