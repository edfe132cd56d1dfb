package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/commit"
	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/ui"
)

func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:     "commit",
		Short:   "Commit workspace changes",
		GroupID: GroupWorkspace,
		Args:    cobra.NoArgs,
		Long: `Commit pending workspace changes through the full protocol:
sync ignore rules, stage additions and deletions, reconcile with the
repository, resolve conflicts, commit, and reconcile once more.

When the workspace sits on an older revision (review state), a direct
commit can conflict with newer work; you are offered to divert the
changes to a new branch instead.`,
		Example: `  svnws commit                 # Prompt for a commit message
  svnws commit -m "Fix build"  # Commit with the given message`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd.Context(), message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")

	return cmd
}

func runCommit(ctx context.Context, message string) error {
	l := log.FromContext(ctx)

	a, err := openApp(ctx)
	if err != nil {
		return err
	}

	dirty, err := a.isDirty(ctx)
	if err != nil {
		return err
	}
	if !dirty {
		l.Printf("No changes need to commit\n")
		return nil
	}

	if a.ws.ReviewState() {
		l.Printf("Current project is not at the latest revision\n")
		choice, err := ui.Select("Continue to commit?", []string{
			"Continue to commit (may get conflicts!)",
			"Create a new branch and commit there (no conflicts)",
			"No, cancel operation",
		})
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			msg, err := commitMessage(message)
			if err != nil {
				return err
			}
			return a.createAndCommitToBranch(ctx, msg)
		case 2:
			return ui.ErrCancelled
		}
	}

	msg, err := commitMessage(message)
	if err != nil {
		return err
	}

	result, err := a.commitChanges(ctx, msg)
	if err != nil {
		return err
	}

	if result == commit.NoChanges {
		l.Printf("No changes to commit\n")
	} else {
		l.Printf("Changes committed successfully. Commit message: %s\n", msg)
	}
	return nil
}
