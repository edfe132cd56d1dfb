package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/svnws/svnws/internal/commit"
	"github.com/svnws/svnws/internal/conflict"
	"github.com/svnws/svnws/internal/ignore"
	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/status"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/ui"
	"github.com/svnws/svnws/internal/ui/progress"
	"github.com/svnws/svnws/internal/workspace"
)

// app bundles the per-invocation state every command needs: the svn
// client rooted at the working directory, the loaded workspace and the
// checkout store.
type app struct {
	client *svn.Client
	ws     *svn.Workspace
	root   string
	store  *workspace.Store
}

// openApp loads the workspace from the current directory and repairs
// it if the repository UUID changed underneath it.
func openApp(ctx context.Context) (*app, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	client := svn.NewClient(root)
	ws, err := svn.LoadWorkspace(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("load workspace (is %s an svn working copy?): %w", root, err)
	}

	if err := ws.Repair(ctx); err != nil {
		return nil, fmt.Errorf("repair workspace: %w", err)
	}

	if configured := cfg.ResolvedRepoURL(); configured != "" && configured != ws.RepoRootURL {
		log.FromContext(ctx).Printf("Working copy belongs to %s, not the configured repository %s\n",
			ws.RepoRootURL, configured)
	}

	return &app{
		client: client,
		ws:     ws,
		root:   root,
		store:  workspace.NewStore(storeDir()),
	}, nil
}

// storeDir is where cross-project checkouts live.
func storeDir() string {
	if cfg.StoreDir != "" {
		return cfg.StoreDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ws_store"
	}
	return filepath.Join(home, ".ws_store")
}

// repoName identifies the repository inside the store.
func (a *app) repoName() string {
	return path.Base(strings.TrimRight(a.ws.RepoRootURL, "/"))
}

func (a *app) rules() (*ignore.RuleSet, error) {
	return ignore.Load(a.root)
}

// isDirty classifies the working copy per the ignore rules.
func (a *app) isDirty(ctx context.Context) (bool, error) {
	rules, err := a.rules()
	if err != nil {
		return false, err
	}
	return status.New(a.client, rules, a.root).IsDirty(ctx)
}

// commitChanges runs the full commit protocol with interactive
// conflict resolution.
func (a *app) commitChanges(ctx context.Context, message string) (commit.Result, error) {
	return commit.New(a.client, a.ws.ProjectName, a.root, ui.ConflictChooser()).Commit(ctx, message)
}

// resolveConflicts settles postponed conflicts interactively.
func (a *app) resolveConflicts(ctx context.Context) error {
	return conflict.NewResolver(a.client, ui.ConflictChooser(), a.root).ResolveAll(ctx)
}

// commitMessage returns the flag value, or prompts for one.
func commitMessage(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue, nil
	}
	msg, err := ui.Input("Commit message:", "describe your changes")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(msg) == "" {
		return "", fmt.Errorf("empty commit message: %w", ui.ErrCancelled)
	}
	return msg, nil
}

// validateBranchName extends name validation with the layout's
// reserved directory names.
func validateBranchName(name string) error {
	if err := svn.ValidateName(name); err != nil {
		return err
	}
	switch strings.ToLower(name) {
	case "trunk", "branches", "tags":
		return fmt.Errorf("%s is a reserved name", name)
	}
	return nil
}

// createAndSwitchToBranch branches off the current revision, so the
// new branch can never conflict, and switches to it.
func (a *app) createAndSwitchToBranch(ctx context.Context, name string) error {
	if err := validateBranchName(name); err != nil {
		return err
	}

	url := a.ws.BranchURL(name)
	exists, err := a.client.URLExists(ctx, url)
	if err != nil {
		return fmt.Errorf("check branch %s: %w", name, err)
	}
	if exists {
		return fmt.Errorf("branch %s already exists", name)
	}

	wc, err := a.ws.WorkingCopyURL(ctx)
	if err != nil {
		return err
	}
	source := fmt.Sprintf("%s@%d", wc, a.ws.CurrentRevision.Num())

	if err := a.client.Copy(ctx, source, url, "-m", "[WS-BRANCH] Create "+name, "--parents"); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	return a.client.Switch(ctx, url)
}

// createAndCommitToBranch diverts pending changes onto a fresh branch
// and commits them there. An empty message prompts for one.
func (a *app) createAndCommitToBranch(ctx context.Context, message string) error {
	l := log.FromContext(ctx)

	for {
		name, err := ui.Input("New branch name:", "")
		if err != nil {
			return err
		}
		if err := a.createAndSwitchToBranch(ctx, name); err != nil {
			l.Printf("Failed to create branch: %v\n", err)
			retry, cerr := ui.Confirm("Try a different branch name?")
			if cerr != nil {
				return cerr
			}
			if !retry {
				return ui.ErrCancelled
			}
			continue
		}
		l.Printf("Now on branch %s\n", name)
		break
	}

	message, err := commitMessage(message)
	if err != nil {
		return err
	}
	if _, err := a.commitChanges(ctx, message); err != nil {
		return err
	}
	l.Printf("Local changes committed successfully\n")
	return nil
}

// ensureCleanWorkspace blocks until the working copy has no pending
// changes: commit them, divert them to a new branch, discard them, or
// cancel. In review state direct commits are not offered.
func (a *app) ensureCleanWorkspace(ctx context.Context) error {
	dirty, err := a.isDirty(ctx)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}

	l := log.FromContext(ctx)
	l.Printf("Workspace contains uncommitted changes\n")

	review := a.ws.ReviewState()
	options := []string{
		"Commit changes and continue on current branch",
		"Save changes to a new branch",
		"Discard changes and continue (deletes all changes!)",
		"Cancel operation",
	}
	if review {
		l.Printf("Not at the latest revision, cannot commit directly to current branch\n")
		options = options[1:]
	}

	choice, err := ui.Select("Handle the dirty workspace:", options)
	if err != nil {
		return err
	}
	if review {
		choice++
	}

	switch choice {
	case 0:
		msg, err := commitMessage("")
		if err != nil {
			return err
		}
		if _, err := a.commitChanges(ctx, msg); err != nil {
			return err
		}
		l.Printf("Local changes committed successfully\n")
		return nil
	case 1:
		return a.createAndCommitToBranch(ctx, "")
	case 2:
		if err := a.client.RevertAll(ctx); err != nil {
			return err
		}
		if err := a.client.CleanupWorkspace(ctx); err != nil {
			return err
		}
		l.Printf("Local changes discarded\n")
		return nil
	default:
		return ui.ErrCancelled
	}
}

// activeProjects lists project names at the repository root, skipping
// the internal placeholder directory.
func (a *app) activeProjects(ctx context.Context) ([]string, error) {
	out, err := a.client.List(ctx, a.ws.RepoRootURL)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.Trim(strings.TrimSpace(line), "/")
		if name == "" || name == workspace.EmptyDir {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// resolveProject matches name against the active projects, fuzzily if
// no exact match exists.
func (a *app) resolveProject(ctx context.Context, name string) (string, error) {
	names, err := a.activeProjects(ctx)
	if err != nil {
		return "", err
	}

	for _, n := range names {
		if n == name {
			return n, nil
		}
	}

	matches := fuzzy.Find(name, names)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no project matches %q", name)
	case 1:
		log.FromContext(ctx).Printf("Assuming project %s\n", matches[0].Str)
		return matches[0].Str, nil
	default:
		candidates := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = m.Str
		}
		idx, err := ui.Select(fmt.Sprintf("Multiple projects match %q:", name), candidates)
		if err != nil {
			return "", err
		}
		return candidates[idx], nil
	}
}

// stepper drives a spinner through the stages of a long backend
// operation. Outside a terminal session every method is a no-op.
type stepper struct {
	s *progress.Spinner
}

func newStepper(message string) *stepper {
	if !ui.Interactive() {
		return &stepper{}
	}
	s := progress.NewSpinner(message)
	s.Start()
	return &stepper{s: s}
}

func (st *stepper) step(message string) {
	if st.s != nil {
		st.s.UpdateMessage(message)
	}
}

func (st *stepper) stop() {
	if st.s != nil {
		st.s.Stop()
	}
}
