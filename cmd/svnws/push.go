package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/svn"
)

func newPushCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:     "push",
		Short:   "Commit changes, or land the branch on another one",
		GroupID: GroupWorkspace,
		Args:    cobra.NoArgs,
		Long: `Commit local changes. With --target the working copy first switches
to the target branch and merges the current branch into it, leaving
you on the target branch afterwards.`,
		Example: `  svnws push            # Commit local changes
  svnws push -t trunk   # Land the current branch on trunk`,
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

			if target == "" || target == current {
				return runCommit(ctx, "")
			}

			if err := svn.ValidateName(target); err != nil {
				return err
			}
			targetURL := a.ws.BranchURL(target)
			exists, err := a.client.URLExists(ctx, targetURL)
			if err != nil {
				return fmt.Errorf("check target branch %s: %w", target, err)
			}
			if !exists {
				l.Printf("Target branch %s does not exist\n", target)
				return nil
			}

			if err := a.ensureCleanWorkspace(ctx); err != nil {
				return err
			}

			sourceURL, err := a.ws.WorkingCopyURL(ctx)
			if err != nil {
				return err
			}
			if err := a.client.Switch(ctx, targetURL); err != nil {
				return fmt.Errorf("switch to %s: %w", target, err)
			}
			if err := a.client.MergeFrom(ctx, sourceURL); err != nil {
				return fmt.Errorf("merge %s into %s: %w", current, target, err)
			}
			if err := a.resolveConflicts(ctx); err != nil {
				return err
			}

			l.Printf("Pushed %s to %s, now on branch %s\n", current, target, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Branch to land the current branch on")
	cmd.RegisterFlagCompletionFunc("target", completeBranches)

	return cmd
}
