package svn

import (
	"errors"
	"os/exec"
)

// ErrSVNNotFound indicates the svn binary is not installed or not in PATH
var ErrSVNNotFound = errors.New("svn is not installed or not in PATH\n\nInstall Subversion: https://subversion.apache.org/packages.html")

// CheckSVN verifies that the svn client is available
func CheckSVN() error {
	if _, err := exec.LookPath("svn"); err != nil {
		return ErrSVNNotFound
	}
	return nil
}

// CheckAdminTools verifies svnadmin and svndumpfilter are available.
// Only destructive repository maintenance needs these.
func CheckAdminTools() error {
	for _, tool := range []string{"svnadmin", "svndumpfilter"} {
		if _, err := exec.LookPath(tool); err != nil {
			return errors.New(tool + " is not installed or not in PATH")
		}
	}
	return nil
}
