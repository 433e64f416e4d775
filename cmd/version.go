package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Populated from main via Execute.
var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("git-issue %s (commit %s, built %s)\n", buildVersion, buildCommit, buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
