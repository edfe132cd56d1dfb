package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/ui"
)

func newBranchCmd() *cobra.Command {
	var (
		deleteBranch  bool
		restoreBranch bool
	)

	cmd := &cobra.Command{
		Use:               "branch [name]",
		Short:             "Create, delete or restore a branch",
		GroupID:           GroupWorkspace,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeBranches,
		Long: `Create a branch from the working copy's current state and switch to
it. With --delete the branch is removed from the repository; with
--restore a previously deleted branch is brought back from history.
Without a name the project history is shown instead.`,
		Example: `  svnws branch feature-x
  svnws branch feature-x --delete
  svnws branch feature-x --restore`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 0 {
				return runLog(ctx, false)
			}
			name := args[0]
			if err := validateBranchName(name); err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}

			switch {
			case restoreBranch:
				return a.restoreBranch(ctx, name)
			case deleteBranch:
				return a.deleteBranch(ctx, name)
			default:
				if err := a.createAndSwitchToBranch(ctx, name); err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Now on branch %s\n", name)
				return nil
			}
		},
	}

	cmd.Flags().BoolVarP(&deleteBranch, "delete", "d", false, "Delete the branch from the repository")
	cmd.Flags().BoolVarP(&restoreBranch, "restore", "r", false, "Restore a deleted branch from history")
	cmd.MarkFlagsMutuallyExclusive("delete", "restore")

	return cmd
}

func (a *app) deleteBranch(ctx context.Context, name string) error {
	l := log.FromContext(ctx)

	if name == "trunk" {
		return fmt.Errorf("cannot delete trunk")
	}
	current, err := a.ws.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if name == current {
		return fmt.Errorf("cannot delete the current branch, switch away first")
	}

	url := a.ws.BranchURL(name)
	exists, err := a.client.URLExists(ctx, url)
	if err != nil {
		return fmt.Errorf("check branch %s: %w", name, err)
	}
	if !exists {
		l.Printf("Branch %s does not exist\n", name)
		return nil
	}

	if err := a.client.Delete(ctx, url, "-m", "[WS-BRANCH-DELETE] Delete "+name); err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}
	l.Printf("Branch %s deleted\n", name)
	return nil
}

func (a *app) restoreBranch(ctx context.Context, name string) error {
	l := log.FromContext(ctx)

	url := a.ws.BranchURL(name)
	exists, err := a.client.URLExists(ctx, url)
	if err != nil {
		return fmt.Errorf("check branch %s: %w", name, err)
	}
	if exists {
		l.Printf("Branch %s already exists\n", name)
		return nil
	}

	entries, err := a.client.XMLLog(ctx, svn.LogDefault, a.ws.BranchesURL(a.ws.ProjectName))
	if err != nil {
		return fmt.Errorf("read branch history: %w", err)
	}
	suffix := "/branches/" + name
	deletedRev := svn.DeletionRevision(entries, func(path string) bool {
		return strings.HasSuffix(path, suffix)
	})
	if deletedRev == 0 {
		return fmt.Errorf("no deleted branch named %s found in history", name)
	}

	source := fmt.Sprintf("%s@%d", url, deletedRev-1)
	if err := a.client.Copy(ctx, source, url, "-m", "Restore branch "+name); err != nil {
		return fmt.Errorf("restore branch %s: %w", name, err)
	}
	l.Printf("Branch %s restored\n", name)

	switchNow, err := ui.Confirm("Switch to the restored branch?")
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			return nil
		}
		return err
	}
	if !switchNow {
		return nil
	}
	return a.switchToBranch(ctx, a.ws.ProjectName, name)
}
