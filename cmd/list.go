package cmd

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitforge/git-issue/internal/render"
	"github.com/gitforge/git-issue/internal/tracker"
)

var (
	listOneline bool
	listTable   bool
)

var listCmd = &cobra.Command{
	Use:   "list [state]",
	Short: "List issues in a state",
	Long: `List issues, newest first. The state defaults to "open"; "closed" and
"all" work everywhere, JIRA additionally accepts its own status names.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		state := tracker.StateOpen
		if len(args) == 1 {
			state = args[0]
		}
		issues, err := svc.Issues(ctx, state)
		if err != nil {
			return err
		}

		if listTable {
			var buf bytes.Buffer
			if err := render.Table(&buf, issues); err != nil {
				return err
			}
			return render.Page(strings.TrimRight(buf.String(), "\n"))
		}

		var lines []string
		for i, issue := range issues {
			if listOneline {
				lines = append(lines, render.Oneline(issue))
				continue
			}
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, render.Summary(issue, issue.NumComments)...)
		}
		return render.Page(strings.Join(lines, "\n"))
	},
}

func init() {
	listCmd.Flags().BoolVar(&listOneline, "oneline", false, "One line per issue")
	listCmd.Flags().BoolVar(&listTable, "table", false, "Tabular listing")
	rootCmd.AddCommand(listCmd)
}
