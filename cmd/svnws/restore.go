package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/ui"
)

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "restore NAME",
		Short:             "Restore a deleted project",
		GroupID:           GroupProject,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjects,
		Long: `Restore a soft-deleted project by copying it back from the revision
before its deletion. Projects removed with 'delete --force' are gone
from history and cannot be restored.`,
		Example: `  svnws restore widgets`,
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

			url := a.ws.ProjectRootURL(name)
			exists, err := a.client.URLExists(ctx, url)
			if err != nil {
				return fmt.Errorf("check project %s: %w", name, err)
			}
			if exists {
				l.Printf("Project %s is not deleted, no need to restore\n", name)
				return nil
			}

			entries, err := a.client.XMLLog(ctx, svn.LogDefault, a.ws.RepoRootURL)
			if err != nil {
				return fmt.Errorf("read repository history: %w", err)
			}
			deletedRev := svn.DeletionRevision(entries, func(path string) bool {
				first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
				return first == name
			})
			if deletedRev == 0 {
				return fmt.Errorf("could not find deletion record for project %s", name)
			}

			source := fmt.Sprintf("%s@%d", url, deletedRev-1)
			if err := a.client.Copy(ctx, source, url, "-m", "Restore project "+name); err != nil {
				return fmt.Errorf("restore project %s: %w", name, err)
			}
			l.Printf("Project %s restored\n", name)

			switchNow, err := ui.Confirm("Switch to the restored project?")
			if err != nil {
				if errors.Is(err, ui.ErrCancelled) {
					return nil
				}
				return err
			}
			if !switchNow {
				return nil
			}
			return a.switchToBranch(ctx, name, "trunk")
		},
	}

	return cmd
}
