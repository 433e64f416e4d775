package render

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/gitforge/git-issue/internal/tracker"
)

// Table writes a borderless issue listing table to w.
func Table(w io.Writer, issues []*tracker.Issue) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header([]string{"Number", "State", "Title", "Author", "Updated"})
	for _, issue := range issues {
		updated := issue.Updated
		if updated.IsZero() {
			updated = issue.Created
		}
		if err := table.Append([]string{
			issue.Number.String(),
			Paint(issue.State.Color, issue.State.Name),
			issue.Title,
			issue.Author.Username,
			RelativeDate(updated),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
