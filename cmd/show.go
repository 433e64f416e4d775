package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/render"
	"github.com/gitforge/git-issue/internal/tracker"
)

var (
	showSummary bool
	showQuiet   bool
)

var showCmd = &cobra.Command{
	Use:   "show <number>",
	Short: "Show an issue with its comments and events",
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

		if showSummary {
			return render.Page(strings.Join(render.Summary(issue, issue.NumComments), "\n"))
		}

		comments, err := issue.Comments(ctx)
		if err != nil {
			return err
		}
		items := make([]tracker.Activity, 0, len(comments))
		for _, comment := range comments {
			items = append(items, comment)
		}
		if !showQuiet {
			events, err := issue.Events(ctx)
			if err != nil {
				return err
			}
			for _, event := range events {
				items = append(items, event)
			}
		}
		tracker.SortActivity(items)

		lines := render.Summary(issue, 0)
		lines = append(lines, render.Activity(items)...)
		return render.Page(strings.Join(lines, "\n"))
	},
}

func init() {
	showCmd.Flags().BoolVar(&showSummary, "summary", false, "Show the issue header only")
	showCmd.Flags().BoolVarP(&showQuiet, "quiet", "q", false, "Skip events, show comments only")
	rootCmd.AddCommand(showCmd)
}
