package svn

import (
	"context"
	"strings"
)

const (
	binSVN    = "svn"
	binMucc   = "svnmucc"
	binAdmin  = "svnadmin"
	binFilter = "svndumpfilter"
)

// Client issues Subversion operations against one working copy.
// One method per backend operation; each blocks until the subprocess
// exits and surfaces non-zero exits as *CommandError.
type Client struct {
	r Runner
}

// NewClient returns a client operating in dir (empty = current directory).
func NewClient(dir string) *Client {
	return &Client{r: NewRunner(dir)}
}

// NewClientWithRunner returns a client using a caller-supplied runner.
// Used by tests to substitute a fake backend.
func NewClientWithRunner(r Runner) *Client {
	return &Client{r: r}
}

func (c *Client) text(ctx context.Context, args ...string) (string, error) {
	out, err := c.r.Output(ctx, binSVN, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Cleanup clears stale locks and transient state from the working copy.
func (c *Client) Cleanup(ctx context.Context) error {
	return c.r.Run(ctx, binSVN, "cleanup", ".")
}

// CleanupWorkspace removes unversioned and ignored files in addition to
// clearing stale locks.
func (c *Client) CleanupWorkspace(ctx context.Context) error {
	return c.r.Run(ctx, binSVN, "cleanup", ".", "--remove-unversioned", "--remove-ignored")
}

// Update brings targets (default: the whole working copy) up to date.
func (c *Client) Update(ctx context.Context, args ...string) error {
	return c.r.Run(ctx, binSVN, append([]string{"update"}, args...)...)
}

// UpdatePostpone updates the whole working copy, leaving conflict markers
// instead of overwriting local edits.
func (c *Client) UpdatePostpone(ctx context.Context) error {
	return c.Update(ctx, "--accept", "postpone")
}

// Status returns the parsed machine-readable status of the working copy.
// With noIgnore, entries matching ignore rules are reported too.
func (c *Client) Status(ctx context.Context, noIgnore bool, targets ...string) ([]StatusEntry, error) {
	args := []string{"status", "--xml"}
	if noIgnore {
		args = append(args, "--no-ignore")
	}
	args = append(args, targets...)
	out, err := c.r.Output(ctx, binSVN, args...)
	if err != nil {
		return nil, err
	}
	return ParseStatus(out)
}

// Log returns raw svn log output for the given arguments.
func (c *Client) Log(ctx context.Context, args ...string) (string, error) {
	return c.text(ctx, append([]string{"log"}, args...)...)
}

// InfoItem returns a single svn info item (e.g. "repos-root-url") for the
// optional target, defaulting to the working copy.
func (c *Client) InfoItem(ctx context.Context, item string, target ...string) (string, error) {
	args := append([]string{"info", "--show-item", item}, target...)
	return c.text(ctx, args...)
}

// Info returns raw svn info output for the given target.
func (c *Client) Info(ctx context.Context, target string) (string, error) {
	return c.text(ctx, "info", target)
}

// List returns the directory listing of a repository URL.
func (c *Client) List(ctx context.Context, url string) (string, error) {
	return c.text(ctx, "list", url)
}

// Add schedules paths for addition without recursing, creating missing
// parents as needed.
func (c *Client) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--parents", "--depth", "empty", "--force"}, paths...)
	return c.r.Run(ctx, binSVN, args...)
}

// AddForce force-registers a local object, recursively.
func (c *Client) AddForce(ctx context.Context, path string) error {
	return c.r.Run(ctx, binSVN, "add", "--force", path)
}

// Delete schedules paths for removal, or deletes URLs directly when a
// message argument is included.
func (c *Client) Delete(ctx context.Context, args ...string) error {
	return c.r.Run(ctx, binSVN, append([]string{"delete"}, args...)...)
}

// DeleteKeepLocal removes the version-control record of path but keeps the
// local filesystem object.
func (c *Client) DeleteKeepLocal(ctx context.Context, path string) error {
	return c.r.Run(ctx, binSVN, "delete", "--keep-local", "--force", path)
}

// Commit submits the staged change set for the given paths (default: the
// whole working copy) and returns the backend's transcript. An empty
// transcript means nothing was transmitted.
func (c *Client) Commit(ctx context.Context, message string, paths ...string) (string, error) {
	args := append([]string{"commit"}, paths...)
	args = append(args, "-m", message)
	out, err := c.r.Output(ctx, binSVN, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Switch repoints the working copy at url.
func (c *Client) Switch(ctx context.Context, url string) error {
	return c.r.Run(ctx, binSVN, "switch", url, ".", "--ignore-ancestry")
}

// Merge runs svn merge with the given arguments.
func (c *Client) Merge(ctx context.Context, args ...string) error {
	return c.r.Run(ctx, binSVN, append([]string{"merge"}, args...)...)
}

// MergeFrom merges changes from a URL into the working copy,
// leaving conflict markers instead of overwriting local edits.
func (c *Client) MergeFrom(ctx context.Context, url string) error {
	return c.Merge(ctx, "--accept", "postpone", url, ".")
}

// Revert discards local modifications on the given targets.
func (c *Client) Revert(ctx context.Context, args ...string) error {
	return c.r.Run(ctx, binSVN, append([]string{"revert"}, args...)...)
}

// RevertAll discards every local modification in the working copy.
func (c *Client) RevertAll(ctx context.Context) error {
	return c.Revert(ctx, "-R", ".")
}

// Mkdir creates repository directories.
func (c *Client) Mkdir(ctx context.Context, args ...string) error {
	return c.r.Run(ctx, binSVN, append([]string{"mkdir"}, args...)...)
}

// Copy performs a repository copy (branch, tag, restore).
func (c *Client) Copy(ctx context.Context, args ...string) error {
	return c.r.Run(ctx, binSVN, append([]string{"copy"}, args...)...)
}

// Checkout checks out a URL into a local path.
func (c *Client) Checkout(ctx context.Context, args ...string) error {
	return c.r.Run(ctx, binSVN, append([]string{"checkout"}, args...)...)
}

// Resolve marks a conflicted path as resolved using the given accept mode
// ("mine-full", "theirs-full" or "working").
func (c *Client) Resolve(ctx context.Context, accept, path string) error {
	return c.r.Run(ctx, binSVN, "resolve", "--accept", accept, path)
}

// PropGet returns a property value.
func (c *Client) PropGet(ctx context.Context, name, target string) (string, error) {
	return c.text(ctx, "propget", name, target)
}

// PropSet sets a property value.
func (c *Client) PropSet(ctx context.Context, name, value, target string) error {
	return c.r.Run(ctx, binSVN, "propset", name, value, target)
}

// PropDel deletes a property.
func (c *Client) PropDel(ctx context.Context, name, target string) error {
	return c.r.Run(ctx, binSVN, "propdel", name, target)
}

// Mucc runs svnmucc, which commits repository-side edits without a
// working copy.
func (c *Client) Mucc(ctx context.Context, args ...string) error {
	return c.r.Run(ctx, binMucc, args...)
}

// URLExists probes whether url exists in the repository. A backend
// command failure means "does not exist"; any other error propagates.
func (c *Client) URLExists(ctx context.Context, url string) (bool, error) {
	out, err := c.Info(ctx, url)
	if err != nil {
		if IsCommandError(err) {
			return false, nil
		}
		return false, err
	}
	return out != "", nil
}
