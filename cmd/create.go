package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/editor"
	"github.com/gitforge/git-issue/internal/render"
	"github.com/gitforge/git-issue/internal/tracker"
)

var (
	createMessage   string
	createAssignee  string
	createMilestone string
	createLabels    []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new issue",
	Long: `Open a new issue on the repository's tracker. Without -m the editor
opens on a draft: the first line is the title, the rest the body.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		assignee, err := pickUser(ctx, svc, createAssignee)
		if err != nil {
			return err
		}
		labels, err := checkLabels(ctx, svc, createLabels)
		if err != nil {
			return err
		}
		milestone, err := checkMilestone(ctx, svc, createMilestone)
		if err != nil {
			return err
		}
		// The remove sentinels are edit-time instructions; a new issue
		// simply starts without the field.
		if len(labels) == 1 && labels[0].None() {
			render.Warnf(cmd.ErrOrStderr(), "label %q has no effect when creating an issue", tracker.SentinelName)
			labels = nil
		}
		if milestone != nil && milestone.None() {
			render.Warnf(cmd.ErrOrStderr(), "milestone %q has no effect when creating an issue", tracker.SentinelName)
			milestone = nil
		}

		msg := splitMessage(createMessage)
		if createMessage == "" {
			if msg, err = editor.ComposeIssue(ctx, "", ""); err != nil {
				return err
			}
		}

		req := tracker.CreateRequest{
			Title:     msg.Title,
			Body:      msg.Body,
			Assignee:  assignee,
			Labels:    labels,
			Milestone: milestone,
		}
		if err := req.Validate(); err != nil {
			return err
		}
		issue, err := svc.Create(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Actioned("Created", issue.Number, issue.URL()))
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createMessage, "message", "m", "", "Issue message, first line is the title")
	createCmd.Flags().StringVarP(&createAssignee, "assignee", "a", "", "Assignee search keyword")
	createCmd.Flags().StringVarP(&createMilestone, "milestone", "s", "", "Milestone title")
	createCmd.Flags().StringArrayVarP(&createLabels, "label", "l", nil, "Label name, repeatable")
	rootCmd.AddCommand(createCmd)
}
