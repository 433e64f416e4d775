package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/render"
	"github.com/gitforge/git-issue/internal/tracker"
)

var reopenCmd = &cobra.Command{
	Use:   "reopen <number>",
	Short: "Reopen a closed issue",
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
		if issue.State.Name != tracker.StateClosed {
			return tracker.Validationf("issue %s is not closed", issue.Number)
		}
		reopened, err := issue.Reopen(ctx)
		if err != nil {
			return err
		}
		fmt.Println(render.Actioned("Reopened", reopened.Number, reopened.URL()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reopenCmd)
}
