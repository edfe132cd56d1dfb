package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/svnws/svnws/internal/config"
	"github.com/svnws/svnws/internal/log"
	"github.com/svnws/svnws/internal/output"
	"github.com/svnws/svnws/internal/svn"
	"github.com/svnws/svnws/internal/ui"
	"github.com/svnws/svnws/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg *config.Config
)

// Command group IDs for organizing help output
const (
	GroupWorkspace = "workspace"
	GroupProject   = "project"
	GroupUtility   = "utility"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "svnws",
	Short: "SVN workspace manager with branch-centric workflows",
	Long: `svnws is a CLI tool for working on SVN repositories the way you would
on a git remote: commit, pull, push, branch and switch between projects,
with ignore rules kept in sync and conflicts resolved interactively.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip svn check for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		return svn.CheckSVN()
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg

	styles.Init(cfg.UI)

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create logger (stderr for diagnostics)
	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Operation cancelled")
			return
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'svnws -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupWorkspace, Title: "Workspace Commands:"},
		&cobra.Group{ID: GroupProject, Title: "Project Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
	)

	// Workspace commands
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newRevertCmd())
	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newPushCmd())

	// Project commands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSwitchCmd())
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newRestoreCmd())

	// Utility commands
	rootCmd.AddCommand(newInfoCmd())
}
