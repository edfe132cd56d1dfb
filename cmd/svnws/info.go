package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/output"
	"github.com/svnws/svnws/internal/ui/static"
	"github.com/svnws/svnws/internal/ui/styles"
)

func newInfoCmd() *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:     "info",
		Short:   "Show workspace status",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Show what the working copy currently reflects: project, branch,
revisions and pending local changes.`,
		Example: `  svnws info
  svnws info --copy  # Also copy the working copy URL to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}

			wcURL, err := a.ws.WorkingCopyURL(ctx)
			if err != nil {
				return err
			}
			branch, err := a.ws.CurrentBranch(ctx)
			if err != nil {
				return err
			}
			dirty, err := a.isDirty(ctx)
			if err != nil {
				return err
			}

			state := styles.SuccessStyle.Render("up to date")
			if a.ws.ReviewState() {
				state = styles.WarningStyle.Render("review (behind " + a.ws.LatestRevision.String() + ")")
			}
			changes := styles.SuccessStyle.Render("clean")
			if dirty {
				changes = styles.WarningStyle.Render("local changes pending")
			}

			rows := [][]string{
				{"Project", styles.AccentStyle.Render(a.ws.ProjectName)},
				{"Branch", styles.BranchSymbol(branch) + " " + branch},
				{"Revision", a.ws.CurrentRevision.String()},
				{"Latest", a.ws.LatestRevision.String()},
				{"State", state},
				{"Workspace", changes},
				{"URL", wcURL},
			}
			output.FromContext(ctx).Print(static.RenderTable([]string{"", ""}, rows))

			if copyURL {
				if err := clipboard.WriteAll(wcURL); err != nil {
					return fmt.Errorf("copy url to clipboard: %w", err)
				}
				log.FromContext(ctx).Printf("Working copy URL copied to clipboard\n")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyURL, "copy", "c", false, "Copy the working copy URL to the clipboard")

	return cmd
}
