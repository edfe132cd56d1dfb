// Package cmd provides helpers for executing shell commands with proper error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users.
//
// # Usage
//
//	cmd := exec.Command("svn", "status")
//	if err := cmd.Run(cmd); err != nil {
//	    // err contains stderr output if available
//	    return fmt.Errorf("svn failed: %w", err)
//	}
//
//	// For commands that return output:
//	output, err := cmd.Output(exec.Command("svn", "info"))
//	if err != nil {
//	    // err contains stderr output
//	}
//
// # Design Notes
//
// svnws shells out to the svn/svnadmin/svnmucc/svndumpfilter CLIs rather
// than binding a Subversion library. This approach is simpler, more
// reliable, and ensures compatibility with user configurations (stored
// credentials, server settings, etc.).
package cmd
