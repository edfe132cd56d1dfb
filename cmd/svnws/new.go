package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/ui"
)

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "new NAME",
		Short:   "Create a project in the repository",
		GroupID: GroupProject,
		Args:    cobra.ExactArgs(1),
		Long: `Create a project with the standard trunk/branches/tags layout, seed
its .gitignore and check the trunk out into the local store. The
.gitignore is linked into the checkout through svn:externals so every
branch shares it.`,
		Example: `  svnws new widgets`,
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

			projectURL := a.ws.ProjectRootURL(name)
			exists, err := a.client.URLExists(ctx, projectURL)
			if err != nil {
				return fmt.Errorf("check project %s: %w", name, err)
			}
			if exists {
				l.Printf("Project %s already exists, nothing to do\n", name)
			} else if err := a.createProject(ctx, name, projectURL); err != nil {
				return err
			}

			switchNow, err := ui.Confirm("Switch to the project now?")
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

// createProject builds the project skeleton and a store checkout of its
// trunk. The shared .gitignore lives at the project root and reaches
// the working copy through an svn:externals definition.
func (a *app) createProject(ctx context.Context, name, projectURL string) error {
	l := log.FromContext(ctx)
	st := newStepper("Creating project " + name)
	defer st.stop()

	err := a.client.Mkdir(ctx, "--parents",
		projectURL+"/trunk", projectURL+"/branches", projectURL+"/tags",
		"-m", "[WS-INIT] "+name)
	if err != nil {
		return fmt.Errorf("create project layout: %w", err)
	}

	err = a.client.Mucc(ctx, "put", "/dev/null", projectURL+"/.gitignore",
		"-m", "[WS-INIT] Add default .gitignore file")
	if err != nil {
		return fmt.Errorf("seed .gitignore: %w", err)
	}

	st.step("Checking out " + name)
	repo := a.repoName()
	if err := a.store.EnsureRepoDir(repo); err != nil {
		return err
	}
	dir := a.store.ProjectDir(repo, name)
	if err := a.client.Checkout(ctx, projectURL+"/trunk", dir); err != nil {
		return fmt.Errorf("checkout new project: %w", err)
	}

	st.step("Linking .gitignore")
	external := fmt.Sprintf("^/%s/.gitignore .gitignore", name)
	if err := a.client.PropSet(ctx, "svn:externals", external, dir); err != nil {
		return fmt.Errorf("set externals: %w", err)
	}
	if err := a.client.Update(ctx, dir); err != nil {
		return err
	}
	if _, err := a.client.Commit(ctx, "Update svn:externals for .gitignore", dir); err != nil {
		return fmt.Errorf("commit externals: %w", err)
	}

	st.stop()
	l.Printf("Project %s created\n", name)
	return nil
}
