package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/editor"
	"github.com/gitforge/git-issue/internal/render"
)

var commentMessage string

var commentCmd = &cobra.Command{
	Use:   "comment <number>",
	Short: "Add a comment to an issue",
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
		body := commentMessage
		if body == "" {
			if body, err = editor.ComposeText(ctx); err != nil {
				return err
			}
		}
		comment, err := issue.Comment(ctx, body)
		if err != nil {
			return err
		}
		fmt.Println(render.Actioned("Commented on", issue.Number, comment.URL()))
		return nil
	},
}

func init() {
	commentCmd.Flags().StringVarP(&commentMessage, "message", "m", "", "Comment body")
	rootCmd.AddCommand(commentCmd)
}
