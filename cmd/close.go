package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/editor"
	"github.com/gitforge/git-issue/internal/render"
	"github.com/gitforge/git-issue/internal/tracker"
)

var (
	closeMessage   string
	closeNoMessage bool
)

var closeCmd = &cobra.Command{
	Use:   "close <number>",
	Short: "Close an open issue",
	Long: `Close an open issue, posting a closing comment first. Without -m the
editor opens for the comment; -n closes without one.`,
	Args: cobra.ExactArgs(1),
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
		if issue.State.Name != tracker.StateOpen {
			return tracker.Validationf("issue %s is not open", issue.Number)
		}
		comment := closeMessage
		if comment == "" && !closeNoMessage {
			if comment, err = editor.ComposeText(ctx); err != nil {
				return err
			}
		}
		closed, err := issue.Close(ctx, comment)
		if err != nil {
			return err
		}
		fmt.Println(render.Actioned("Closed", closed.Number, closed.URL()))
		return nil
	},
}

func init() {
	closeCmd.Flags().StringVarP(&closeMessage, "message", "m", "", "Closing comment body")
	closeCmd.Flags().BoolVarP(&closeNoMessage, "no-message", "n", false, "Close without a comment")
	rootCmd.AddCommand(closeCmd)
}
