package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/svn"
)

func newRevertCmd() *cobra.Command {
	var revision string

	cmd := &cobra.Command{
		Use:     "revert",
		Short:   "Roll the project back to an older revision",
		GroupID: GroupWorkspace,
		Args:    cobra.NoArgs,
		Long: `Roll the working copy back to an older revision and commit the result
as a new revision. Before the rollback an anchor tag is created under
tags/ so the reverted-from state stays reachable.`,
		Example: `  svnws revert -r 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			target, err := svn.ParseRevision(revision)
			if err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}

			if !target.Less(a.ws.LatestRevision) {
				return fmt.Errorf("target revision %s is not older than latest revision %s, nothing to revert",
					target, a.ws.LatestRevision)
			}

			if err := a.ensureCleanWorkspace(ctx); err != nil {
				return err
			}

			wcURL, err := a.ws.WorkingCopyURL(ctx)
			if err != nil {
				return err
			}

			tag := "rollback-" + time.Now().Format("20060102-150405")
			tagURL := a.ws.ProjectRootURL(a.ws.ProjectName) + "/tags/" + tag
			source := fmt.Sprintf("%s@%s", wcURL, revisionArg(target))
			err = a.client.Copy(ctx, source, tagURL,
				"-m", "[WS-REVERT] Anchor for revert: "+tag, "--parents")
			if err != nil {
				return fmt.Errorf("create anchor tag %s: %w", tag, err)
			}

			mergeRange := fmt.Sprintf("HEAD:%s", revisionArg(target))
			if err := a.client.Merge(ctx, "-r", mergeRange, "."); err != nil {
				l.Printf("Reverse merge failed, restoring workspace: %v\n", err)
				if revertErr := a.client.RevertAll(ctx); revertErr != nil {
					l.Printf("Could not restore workspace: %v\n", revertErr)
				}
				return fmt.Errorf("reverse merge to %s: %w", target, err)
			}

			if _, err := a.commitChanges(ctx, "[WS-ROLLBACK] tags/"+tag); err != nil {
				return err
			}

			l.Printf("Reverted to revision %s (anchor tag: tags/%s)\n", target, tag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&revision, "revision", "r", "", "Target revision (e.g. 100 or r100)")
	cmd.MarkFlagRequired("revision")

	return cmd
}
