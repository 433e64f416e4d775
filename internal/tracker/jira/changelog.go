package jira

import (
	"fmt"
	"strings"
)

// itemRenderers maps a changelog field to its description renderer. Most
// renderers distinguish the from-only, to-only, and from-and-to cases,
// since JIRA records additions and removals as one-sided changes.
var itemRenderers = map[string]func(changeItem) string{
	"assignee": func(item changeItem) string {
		if item.FromString != "" {
			return fmt.Sprintf("Assignee changed from %s to %s", item.FromString, item.ToString)
		}
		return "Assignee changed to " + item.ToString
	},
	"description": func(item changeItem) string {
		if item.FromString != "" {
			return "Updated description"
		}
		return "Added description"
	},
	"labels": func(item changeItem) string {
		var lines []string
		if item.FromString != "" {
			lines = append(lines, "Removed label "+item.FromString+" from this")
		}
		if item.ToString != "" {
			lines = append(lines, "Added label "+item.ToString+" to this")
		}
		return strings.Join(lines, "\n")
	},
	"priority": func(item changeItem) string {
		switch {
		case item.FromString != "" && item.ToString != "":
			return fmt.Sprintf("Priority changed from %s to %s", item.FromString, item.ToString)
		case item.FromString != "":
			return "Priority " + item.FromString + " removed"
		default:
			return "Priority " + item.ToString + " added"
		}
	},
	"resolution": func(item changeItem) string {
		switch {
		case item.FromString != "" && item.ToString != "":
			return fmt.Sprintf("Resolution changed from %s to %s", item.FromString, item.ToString)
		case item.FromString != "":
			return "Removed resolution " + item.FromString
		default:
			return "Marked resolution as " + item.ToString
		}
	},
	"summary": func(item changeItem) string {
		return fmt.Sprintf("Changed title from %s to %s", item.FromString, item.ToString)
	},
	"status": func(item changeItem) string {
		return fmt.Sprintf("Moved this from %s to %s", item.FromString, item.ToString)
	},
	"issuetype": func(item changeItem) string {
		return fmt.Sprintf("Changed issue type from %s to %s", item.FromString, item.ToString)
	},
	"Attachment": func(item changeItem) string {
		if item.FromString != "" {
			return "Removed attachment " + item.FromString
		}
		return "Added attachment " + item.ToString
	},
	"Component": func(item changeItem) string {
		if item.FromString != "" {
			return "Removed from " + item.FromString + " component"
		}
		return "Added to " + item.ToString + " component"
	},
	"Epic Link": func(item changeItem) string {
		return "Added this to the epic " + item.ToString
	},
	"Epic Child": func(item changeItem) string {
		if item.FromString != "" {
			return "Removed " + item.FromString + " as a child of this epic"
		}
		return "Added " + item.ToString + " as a child of this epic"
	},
	"Epic Name": func(item changeItem) string {
		switch {
		case item.FromString != "" && item.ToString != "":
			return fmt.Sprintf("Changed epic name from %s to %s", item.FromString, item.ToString)
		case item.ToString != "":
			return "Set epic name to " + item.ToString
		default:
			return "Removed epic name " + item.FromString
		}
	},
	"Epic Status": func(item changeItem) string {
		switch {
		case item.FromString != "" && item.ToString != "":
			return fmt.Sprintf("Changed epic status from %s to %s", item.FromString, item.ToString)
		case item.ToString != "":
			return "Set epic status to " + item.ToString
		default:
			return "Removed epic status " + item.FromString
		}
	},
	"Fix Version": func(item changeItem) string {
		switch {
		case item.FromString != "" && item.ToString != "":
			return fmt.Sprintf("Changed milestone from %s to %s", item.FromString, item.ToString)
		case item.FromString != "":
			return "Removed this from the " + item.FromString + " milestone"
		default:
			return "Added this to the " + item.ToString + " milestone"
		}
	},
	"Flagged": func(item changeItem) string {
		switch {
		case item.FromString != "" && item.ToString != "":
			return fmt.Sprintf("Changed flag from %s to %s", item.FromString, item.ToString)
		case item.FromString != "":
			return "Removed the " + item.FromString + " flag from this"
		default:
			return "Added the " + item.ToString + " flag to this"
		}
	},
	"Link": func(item changeItem) string {
		if item.FromString != "" {
			return item.FromString
		}
		return item.ToString
	},
	"Parent": func(item changeItem) string {
		switch {
		case item.FromString != "" && item.ToString != "":
			return fmt.Sprintf("Changed parent task from %s to %s", item.FromString, item.ToString)
		case item.FromString != "":
			return "Removed parent task " + item.FromString + " from this"
		default:
			return "Added parent task " + item.ToString + " to this"
		}
	},
	"Rank": func(item changeItem) string {
		return item.ToString
	},
	"RemoteIssueLink": func(item changeItem) string {
		if item.FromString != "" {
			return item.FromString
		}
		return item.ToString
	},
	"Sprint": func(item changeItem) string {
		switch {
		case item.FromString != "" && item.ToString != "":
			return fmt.Sprintf("Sprint changed from %s to %s", item.FromString, item.ToString)
		case item.FromString != "":
			return "Removed this from the " + item.FromString + " sprint"
		default:
			return "Added this to the " + item.ToString + " sprint"
		}
	},
	"Workflow": func(item changeItem) string {
		return fmt.Sprintf("Changed workflow from %s to %s", item.FromString, item.ToString)
	},
}

// describeHistory renders one changelog entry into event text, one line
// per field change. Unrecognized fields surface as a generic from/to
// description rather than being dropped.
func describeHistory(history historyPayload) string {
	var lines []string
	for _, item := range history.Items {
		if render, ok := itemRenderers[item.Field]; ok {
			if line := render(item); line != "" {
				lines = append(lines, line)
			}
			continue
		}
		lines = append(lines, describeUnknown(item))
	}
	return strings.Join(lines, "\n")
}

func describeUnknown(item changeItem) string {
	switch {
	case item.FromString != "" && item.ToString != "":
		return fmt.Sprintf("Changed %s from %s to %s", item.Field, item.FromString, item.ToString)
	case item.ToString != "":
		return fmt.Sprintf("Set %s to %s", item.Field, item.ToString)
	case item.FromString != "":
		return fmt.Sprintf("Removed %s %s", item.Field, item.FromString)
	default:
		return "Changed " + item.Field
	}
}
