package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/workspace"
)

func newSwitchCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:               "switch [project]",
		Short:             "Switch the workspace to another project or branch",
		GroupID:           GroupProject,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeProjects,
		Long: `Switch the working copy to another project or another branch of the
current project. Local changes are committed, diverted to a branch or
discarded first. Project names are matched fuzzily.`,
		Example: `  svnws switch widgets           # Trunk of another project
  svnws switch -b feature-x      # Branch of the current project
  svnws switch widgets -b dev    # Branch of another project`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}

			project := a.ws.ProjectName
			if len(args) == 1 {
				project, err = a.resolveProject(ctx, args[0])
				if err != nil {
					return err
				}
			}
			return a.switchToBranch(ctx, project, branch)
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "trunk", "Branch to switch to")
	cmd.RegisterFlagCompletionFunc("branch", completeBranches)

	return cmd
}

// switchToBranch moves the working copy to project/branch. Within a
// project this is a plain svn switch; across projects the working copy
// is emptied through the placeholder directory and the target checked
// out in place, with the store's reference counters handed over.
func (a *app) switchToBranch(ctx context.Context, project, branch string) error {
	l := log.FromContext(ctx)

	if branch == "" {
		branch = "trunk"
	}
	if err := svn.ValidateName(project); err != nil {
		return err
	}
	if err := svn.ValidateName(branch); err != nil {
		return err
	}

	subpath := branch
	if branch != "trunk" {
		subpath = "branches/" + branch
	}
	targetURL := a.ws.ProjectRootURL(project) + "/" + subpath

	exists, err := a.client.URLExists(ctx, targetURL)
	if err != nil {
		return fmt.Errorf("check %s: %w", targetURL, err)
	}
	if !exists {
		l.Printf("Project %s has no branch %s\n", project, subpath)
		return nil
	}

	wcURL, err := a.ws.WorkingCopyURL(ctx)
	if err != nil {
		return err
	}
	if targetURL == wcURL && !a.ws.ReviewState() {
		l.Printf("Already on the latest revision of project %s, branch %s\n", project, subpath)
		return nil
	}

	if err := a.ensureCleanWorkspace(ctx); err != nil {
		return err
	}

	st := newStepper("Cleaning up workspace")
	defer st.stop()
	if err := a.client.CleanupWorkspace(ctx); err != nil {
		return err
	}

	st.step(fmt.Sprintf("Switching to %s/%s", project, subpath))
	if project == a.ws.ProjectName {
		if err := a.client.Switch(ctx, targetURL); err != nil {
			return fmt.Errorf("switch to %s: %w", subpath, err)
		}
	} else if err := a.switchProject(ctx, project, targetURL); err != nil {
		return err
	}

	st.step("Final cleanup")
	if err := a.client.Cleanup(ctx); err != nil {
		return err
	}
	st.stop()

	l.Printf("Switched to project %s, branch %s\n", project, subpath)
	return nil
}

// switchProject replaces the working copy's contents with another
// project. Switching to the empty placeholder first clears the tree
// cheaply, then the administrative state is dropped and the target
// checked out over the remains.
func (a *app) switchProject(ctx context.Context, project, targetURL string) error {
	emptyURL := a.ws.RepoRootURL + "/" + workspace.EmptyDir
	if err := a.client.Switch(ctx, emptyURL); err != nil {
		return fmt.Errorf("switch to placeholder: %w", err)
	}
	if err := os.RemoveAll(filepath.Join(a.root, ".svn")); err != nil {
		return fmt.Errorf("remove administrative directory: %w", err)
	}
	if err := os.Remove(filepath.Join(a.root, ".gitignore")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove .gitignore: %w", err)
	}

	repo := a.repoName()
	if err := a.store.Release(repo, a.ws.ProjectName); err != nil {
		log.FromContext(ctx).Debug("release checkout reference", "project", a.ws.ProjectName, "error", err)
	}
	if err := a.store.Acquire(repo, project); err != nil {
		return err
	}

	if err := a.client.Checkout(ctx, targetURL, a.root, "--force"); err != nil {
		return fmt.Errorf("checkout %s: %w", targetURL, err)
	}
	return nil
}
