package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/editor"
	"github.com/gitforge/git-issue/internal/render"
	"github.com/gitforge/git-issue/internal/tracker"
)

var (
	editMessage   string
	editNoMessage bool
	editAssignee  string
	editMilestone string
	editLabels    []string
)

var editCmd = &cobra.Command{
	Use:   "edit <number>",
	Short: "Edit an existing issue",
	Long: `Edit an issue's title, body, assignee, milestone, or labels. Without
-m or -n the editor opens seeded with the current title and body. Pass
"none" as the label or milestone to remove it.`,
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

		req := &tracker.EditRequest{}
		switch {
		case editNoMessage:
		case editMessage != "":
			applyMessage(req, issue, splitMessage(editMessage))
		default:
			msg, err := editor.ComposeIssue(ctx, issue.Title, issue.Body)
			if err != nil {
				return err
			}
			applyMessage(req, issue, msg)
		}

		assignee, err := pickUser(ctx, svc, editAssignee)
		if err != nil {
			return err
		}
		if assignee != nil {
			req.Assignee = tracker.Set(*assignee)
		}
		labels, err := checkLabels(ctx, svc, editLabels)
		if err != nil {
			return err
		}
		if labels != nil {
			req.Labels = tracker.Set(labels)
		}
		milestone, err := checkMilestone(ctx, svc, editMilestone)
		if err != nil {
			return err
		}
		if milestone != nil {
			req.Milestone = tracker.Set(*milestone)
		}

		edited, err := issue.Edit(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println(render.Actioned("Edited", edited.Number, edited.URL()))
		return nil
	},
}

// applyMessage records title and body changes, skipping fields the
// message leaves as they were.
func applyMessage(req *tracker.EditRequest, issue *tracker.Issue, msg editor.Message) {
	if msg.Title != "" && msg.Title != issue.Title {
		req.Title = tracker.Set(msg.Title)
	}
	if msg.Body != issue.Body {
		req.Body = tracker.Set(msg.Body)
	}
}

func init() {
	editCmd.Flags().StringVarP(&editMessage, "message", "m", "", "Issue message, first line is the title")
	editCmd.Flags().BoolVarP(&editNoMessage, "no-message", "n", false, "Keep the current title and body")
	editCmd.Flags().StringVarP(&editAssignee, "assignee", "a", "", "Assignee search keyword")
	editCmd.Flags().StringVarP(&editMilestone, "milestone", "s", "", `Milestone title, "none" removes it`)
	editCmd.Flags().StringArrayVarP(&editLabels, "label", "l", nil, `Label name, repeatable, "none" removes all`)
	rootCmd.AddCommand(editCmd)
}
