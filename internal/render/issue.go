package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gitforge/git-issue/internal/tracker"
)

// dateLayout matches git's default log date format.
const dateLayout = "Mon Jan 02 15:04:05 2006 -0700"

// HumanDate renders an absolute timestamp in git's log format.
func HumanDate(t time.Time) string {
	return t.Format(dateLayout)
}

// RelativeDate renders a timestamp relative to now ("3 days ago").
func RelativeDate(t time.Time) string {
	return humanize.Time(t)
}

// StateTag renders the parenthesized state annotation of an issue:
// the colored state name followed by milestone titles and colored
// label names.
func StateTag(issue *tracker.Issue) string {
	parts := []string{Paint(issue.State.Color, issue.State.Name)}
	for _, milestone := range issue.Milestones {
		parts = append(parts, milestone.Title)
	}
	for _, label := range issue.Labels {
		parts = append(parts, Paint(label.PaletteColor(), label.Name))
	}
	return strings.Join(parts, " ")
}

// Summary renders the multi-line issue header: title line, author,
// optional assignee, date, indented body, and the comment count when
// requested.
func Summary(issue *tracker.Issue, numComments int) []string {
	lines := []string{
		fmt.Sprintf("%s (%s)",
			Heading(fmt.Sprintf("%s %s", issue.Number, issue.Title)),
			StateTag(issue)),
		"Author:   " + issue.Author.String(),
	}
	if issue.Assignee != nil {
		lines = append(lines, "Assignee: "+issue.Assignee.String())
	}
	lines = append(lines, "Date:     "+HumanDate(issue.Created))
	if issue.Body != "" {
		lines = append(lines, "")
		for _, line := range strings.Split(issue.Body, "\n") {
			lines = append(lines, "    "+line)
		}
	}
	if numComments > 0 {
		noun := "comments"
		if numComments == 1 {
			noun = "comment"
		}
		lines = append(lines, "", fmt.Sprintf("%d %s", numComments, noun))
	}
	return lines
}

// Oneline renders the single-line listing form of an issue.
func Oneline(issue *tracker.Issue) string {
	return fmt.Sprintf("%s %s",
		Heading(fmt.Sprintf("%s (%s)", issue.Number, StateTag(issue))),
		issue.Title)
}

// Activity renders a chronologically ordered mix of comments and events
// for the detail view.
func Activity(items []tracker.Activity) []string {
	var lines []string
	for _, item := range items {
		switch v := item.(type) {
		case *tracker.Comment:
			lines = append(lines,
				"",
				Heading(fmt.Sprintf("Comment %s added %s", v.ID, RelativeDate(v.Created))),
				"Author:   "+v.Author.String(),
				"")
			for _, line := range strings.Split(v.Body, "\n") {
				lines = append(lines, "    "+line)
			}
		case *tracker.Event:
			lines = append(lines,
				"",
				Heading(fmt.Sprintf("%s %s", v.Text, RelativeDate(v.Created))),
				"Actor:    "+v.Actor.String())
		}
	}
	return lines
}
