// Package cmd implements the git-issue command line. Each subcommand
// resolves the repository's tracker configuration, opens the matching
// backend adapter, and talks to it through the tracker.Service contract.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/config"
	"github.com/gitforge/git-issue/internal/render"
	"github.com/gitforge/git-issue/internal/tracker"
	"github.com/gitforge/git-issue/internal/tracker/resolve"
)

var debug bool

// openService resolves the repository configuration and constructs the
// backend adapter. A seam for tests.
var openService = func(ctx context.Context) (tracker.Service, error) {
	cfg, err := config.NewResolver().Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return resolve.Open(cfg)
}

var rootCmd = &cobra.Command{
	Use:   "git-issue",
	Short: "Manage remote issue trackers from the command line",
	Long: `git-issue works with the issue tracker of the current repository's
remote: GitHub, GitLab, Gogs, and JIRA are supported. The service and
credentials come from git config issue.* settings, an optional
~/.config/git-issue/config.yaml, and the system keyring.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		render.Errorf(os.Stderr, "%v", err)
		if debug {
			fmt.Fprintf(os.Stderr, "%#v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print unabridged error detail")
}
