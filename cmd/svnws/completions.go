package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// completeProjects provides project name completion from the
// repository root listing.
func completeProjects(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := a.activeProjects(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, n := range names {
		if strings.HasPrefix(n, toComplete) {
			matches = append(matches, n)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeBranches provides branch name completion for the current
// project.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	branches := []string{"trunk"}
	out, err := a.client.List(ctx, a.ws.BranchesURL(a.ws.ProjectName))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, "/") {
			branches = append(branches, strings.TrimSuffix(line, "/"))
		}
	}

	var matches []string
	for _, b := range branches {
		if strings.HasPrefix(b, toComplete) {
			matches = append(matches, b)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
