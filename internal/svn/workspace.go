package svn

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Workspace describes the working copy and the repository it reflects.
// Loaded once per command invocation; revision fields are snapshots from
// load time.
type Workspace struct {
	Client *Client

	// RepoRootURL is the repository root, URL-decoded.
	RepoRootURL string
	// RepoFSPath is the repository's local filesystem path, derived from a
	// file:// root URL; empty for remote repositories.
	RepoFSPath string
	// ProjectName is the first segment of the working copy's
	// repository-relative URL.
	ProjectName string

	CurrentRevision Revision
	LatestRevision  Revision
}

// LoadWorkspace inspects the working copy the client points at.
func LoadWorkspace(ctx context.Context, c *Client) (*Workspace, error) {
	rootRaw, err := c.InfoItem(ctx, "repos-root-url")
	if err != nil {
		return nil, fmt.Errorf("read repository root: %w", err)
	}
	rootURL, err := url.PathUnescape(rootRaw)
	if err != nil {
		return nil, fmt.Errorf("decode repository root %q: %w", rootRaw, err)
	}

	relRaw, err := c.InfoItem(ctx, "relative-url")
	if err != nil {
		return nil, fmt.Errorf("read relative url: %w", err)
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(relRaw, "^"), "/")
	project, _, _ := strings.Cut(rel, "/")
	if project == "" {
		return nil, fmt.Errorf("could not determine project name from relative url %q", relRaw)
	}
	project, err = url.PathUnescape(project)
	if err != nil {
		return nil, fmt.Errorf("decode project name: %w", err)
	}

	current, err := loadRevision(ctx, c, "--show-item", "last-changed-revision")
	if err != nil {
		return nil, fmt.Errorf("read current revision: %w", err)
	}
	latest, err := loadRevision(ctx, c, "-r", "HEAD", "--show-item", "last-changed-revision")
	if err != nil {
		return nil, fmt.Errorf("read latest revision: %w", err)
	}

	return &Workspace{
		Client:          c,
		RepoRootURL:     rootURL,
		RepoFSPath:      strings.TrimPrefix(rootURL, "file://"),
		ProjectName:     project,
		CurrentRevision: current,
		LatestRevision:  latest,
	}, nil
}

func loadRevision(ctx context.Context, c *Client, args ...string) (Revision, error) {
	out, err := c.text(ctx, append([]string{"info"}, args...)...)
	if err != nil {
		return Revision{}, err
	}
	return ParseRevision(out)
}

// ReviewState reports whether the working copy lags the repository's
// latest revision. Committing in this state risks upstream divergence and
// must be gated behind an explicit decision.
func (ws *Workspace) ReviewState() bool {
	return ws.CurrentRevision.Less(ws.LatestRevision)
}

// ProjectRootURL returns {root}/{project}.
func (ws *Workspace) ProjectRootURL(project string) string {
	return ws.RepoRootURL + "/" + project
}

// BranchesURL returns {root}/{project}/branches.
func (ws *Workspace) BranchesURL(project string) string {
	return ws.ProjectRootURL(project) + "/branches"
}

// TrunkURL returns {root}/{project}/trunk.
func (ws *Workspace) TrunkURL(project string) string {
	return ws.ProjectRootURL(project) + "/trunk"
}

// CurrentProjectURL returns the repository URL of the current project.
func (ws *Workspace) CurrentProjectURL() string {
	return ws.ProjectRootURL(ws.ProjectName)
}

// BranchURL returns the URL of a branch of the current project.
// "trunk" maps to the trunk directory.
func (ws *Workspace) BranchURL(branch string) string {
	if branch == "trunk" {
		return ws.TrunkURL(ws.ProjectName)
	}
	return ws.BranchesURL(ws.ProjectName) + "/" + branch
}

// WorkingCopyURL returns the URL the working copy currently reflects,
// URL-decoded. Queried fresh because switch operations change it.
func (ws *Workspace) WorkingCopyURL(ctx context.Context) (string, error) {
	raw, err := ws.Client.InfoItem(ctx, "url")
	if err != nil {
		return "", fmt.Errorf("read working copy url: %w", err)
	}
	return url.PathUnescape(raw)
}

// CurrentBranch derives the branch name from the working copy URL:
// "trunk", a branches/ segment, or "unknown" for anything else.
func (ws *Workspace) CurrentBranch(ctx context.Context) (string, error) {
	wcURL, err := ws.WorkingCopyURL(ctx)
	if err != nil {
		return "", err
	}
	rel := strings.TrimPrefix(wcURL, ws.CurrentProjectURL()+"/")
	switch {
	case strings.HasPrefix(rel, "trunk"):
		return "trunk", nil
	case strings.HasPrefix(rel, "branches/"):
		branch, _, _ := strings.Cut(strings.TrimPrefix(rel, "branches/"), "/")
		return branch, nil
	default:
		return "unknown", nil
	}
}

// BranchFromPath extracts the branch name from a repository path of the
// current project ("/proj/branches/x/..." or "/proj/trunk/...").
func (ws *Workspace) BranchFromPath(path string) (string, bool) {
	rel := strings.TrimPrefix(path, "/")
	rel = strings.TrimPrefix(rel, ws.ProjectName)
	rel = strings.TrimPrefix(rel, "/")
	switch {
	case strings.HasPrefix(rel, "branches/"):
		branch, _, _ := strings.Cut(strings.TrimPrefix(rel, "branches/"), "/")
		return branch, branch != ""
	case strings.HasPrefix(rel, "trunk"):
		return "trunk", true
	default:
		return "", false
	}
}

// Repair re-anchors the working copy when its repository identity no
// longer matches the remote (the repository was rewritten under it):
// the administrative directory is dropped and the current URL checked out
// in place. Delegated to by the prune pipeline after a repository swap.
func (ws *Workspace) Repair(ctx context.Context) error {
	localUUID, err := ws.Client.InfoItem(ctx, "repos-uuid")
	if err != nil {
		return fmt.Errorf("read local repository uuid: %w", err)
	}
	remoteUUID, err := ws.Client.InfoItem(ctx, "repos-uuid", ws.RepoRootURL)
	if err != nil {
		return fmt.Errorf("read remote repository uuid: %w", err)
	}
	if localUUID == remoteUUID {
		return nil
	}

	wcURL, err := ws.WorkingCopyURL(ctx)
	if err != nil {
		return err
	}
	adminDir := filepath.Join(".", ".svn")
	if _, statErr := os.Stat(adminDir); statErr == nil {
		if err := os.RemoveAll(adminDir); err != nil {
			return fmt.Errorf("remove stale administrative directory: %w", err)
		}
	}
	return ws.Client.Checkout(ctx, wcURL, ".", "--force")
}
