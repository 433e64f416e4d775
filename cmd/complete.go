package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/tracker"
)

var completeState string

var completeCmd = &cobra.Command{
	Use:       "complete {issues|labels|milestones|states}",
	Short:     "Print completion candidates for shell integration",
	Hidden:    true,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"issues", "labels", "milestones", "states"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		switch args[0] {
		case "issues":
			issues, err := svc.Issues(ctx, completeState)
			if err != nil {
				return err
			}
			zsh := strings.Contains(os.Getenv("SHELL"), "zsh")
			for _, issue := range issues {
				if zsh {
					// zsh completion descriptions separate on unescaped colons.
					title := strings.ReplaceAll(issue.Title, ":", `\:`)
					fmt.Printf("%s:%s\n", issue.Number.API(), title)
				} else {
					fmt.Println(issue.Number.API())
				}
			}
		case "labels":
			labels, err := svc.Labels(ctx)
			if err != nil {
				return err
			}
			for _, label := range labels {
				fmt.Println(label.Name)
			}
		case "milestones":
			milestones, err := svc.Milestones(ctx)
			if err != nil {
				return err
			}
			for _, milestone := range milestones {
				fmt.Println(milestone.Title)
			}
		case "states":
			states, err := svc.States(ctx)
			if err != nil {
				return err
			}
			for _, state := range states {
				fmt.Println(state.Name)
			}
		default:
			return tracker.Validationf("unknown completion type: %s", args[0])
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVar(&completeState, "state", tracker.StateOpen, "Issue state to complete from")
	rootCmd.AddCommand(completeCmd)
}
