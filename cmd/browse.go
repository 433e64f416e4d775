package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

var browsePrint bool

// openBrowser launches the platform browser. A seam for tests.
var openBrowser = func(ctx context.Context, url string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	return exec.CommandContext(ctx, opener, url).Start()
}

var browseCmd = &cobra.Command{
	Use:   "browse <number>",
	Short: "Open an issue in the browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		issue, err := svc.Issue(ctx, args[0])
		if err != nil {
			return err
		}
		if browsePrint {
			fmt.Println(issue.URL())
			return nil
		}
		return openBrowser(ctx, issue.URL())
	},
}

func init() {
	browseCmd.Flags().BoolVarP(&browsePrint, "url", "u", false, "Print the URL instead of opening it")
	rootCmd.AddCommand(browseCmd)
}
