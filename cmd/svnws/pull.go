package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/svn"
)

func newPullCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:     "pull",
		Short:   "Update the workspace, or merge in another branch",
		GroupID: GroupWorkspace,
		Args:    cobra.NoArgs,
		Long: `Update the working copy to the latest revision. With --source the
changes of another branch are merged in instead. Conflicts are left
with postponed markers and resolved interactively afterwards.`,
		Example: `  svnws pull            # Update to the latest revision
  svnws pull -s trunk   # Merge trunk into the current branch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			a, err := openApp(ctx)
			if err != nil {
				return err
			}

			current, err := a.ws.CurrentBranch(ctx)
			if err != nil {
				return err
			}

			if source == "" || source == current {
				if err := a.client.UpdatePostpone(ctx); err != nil {
					return err
				}
				if err := a.resolveConflicts(ctx); err != nil {
					return err
				}
				l.Printf("Updated to the latest revision\n")
				return nil
			}

			if err := svn.ValidateName(source); err != nil {
				return err
			}
			sourceURL := a.ws.BranchURL(source)
			exists, err := a.client.URLExists(ctx, sourceURL)
			if err != nil {
				return fmt.Errorf("check source branch %s: %w", source, err)
			}
			if !exists {
				l.Printf("Source branch %s does not exist\n", source)
				return nil
			}

			if err := a.ensureCleanWorkspace(ctx); err != nil {
				return err
			}
			if err := a.client.MergeFrom(ctx, sourceURL); err != nil {
				return fmt.Errorf("merge from %s: %w", source, err)
			}
			if err := a.resolveConflicts(ctx); err != nil {
				return err
			}

			l.Printf("Pulled changes from %s\n", source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Branch to merge changes from")
	cmd.RegisterFlagCompletionFunc("source", completeBranches)

	return cmd
}
