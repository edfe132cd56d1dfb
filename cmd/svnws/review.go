package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/svn"
)

// revisionArg renders a revision the way svn -r expects it.
func revisionArg(r svn.Revision) string {
	if r.IsHead() {
		return "HEAD"
	}
	return strconv.FormatUint(r.Num(), 10)
}

func newReviewCmd() *cobra.Command {
	var revision string

	cmd := &cobra.Command{
		Use:     "review",
		Short:   "Inspect an older revision of the project",
		GroupID: GroupWorkspace,
		Args:    cobra.NoArgs,
		Long: `Update the working copy to an older revision for inspection. The
workspace must be clean first; while reviewing, direct commits are
diverted to a new branch. Return with 'svnws pull'.`,
		Example: `  svnws review -r 100
  svnws review -r r100`,
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

			if !target.IsHead() && a.ws.LatestRevision.Less(target) {
				return fmt.Errorf("target revision %s is beyond latest revision %s, cannot review",
					target, a.ws.LatestRevision)
			}

			if err := a.ensureCleanWorkspace(ctx); err != nil {
				return err
			}

			if err := a.client.Update(ctx, "-r", revisionArg(target)); err != nil {
				if svn.IsCommandError(err) {
					l.Printf("Update failed, maybe the project did not exist at revision %s\n", target)
					return nil
				}
				return err
			}

			l.Printf("Reviewing revision %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&revision, "revision", "r", "", "Target revision (e.g. 100, r100 or HEAD)")
	cmd.MarkFlagRequired("revision")

	return cmd
}
