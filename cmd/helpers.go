package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/gitforge/git-issue/internal/editor"
	"github.com/gitforge/git-issue/internal/tracker"
)

// selectUser prompts when a keyword matches several users. A seam for
// tests.
var selectUser = func(keyword string, users []tracker.User) (*tracker.User, error) {
	choice := 0
	options := make([]huh.Option[int], len(users))
	for i, user := range users {
		options[i] = huh.NewOption(user.String(), i)
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title(fmt.Sprintf("Several users match %q", keyword)).
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	return &users[choice], nil
}

// pickUser resolves an assignee keyword to a single user, prompting on
// multiple matches. An empty keyword means no assignee.
func pickUser(ctx context.Context, svc tracker.Service, keyword string) (*tracker.User, error) {
	if keyword == "" {
		return nil, nil
	}
	users, err := svc.UserSearch(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if len(users) == 1 {
		return &users[0], nil
	}
	return selectUser(keyword, users)
}

// checkLabels resolves label names against the repository's label set.
// The "none" name short-circuits to the remove-all sentinel; an unknown
// name is a ValidationError.
func checkLabels(ctx context.Context, svc tracker.Service, names []string) ([]tracker.Label, error) {
	if len(names) == 0 {
		return nil, nil
	}
	for _, name := range names {
		if name == tracker.SentinelName {
			return []tracker.Label{tracker.NoLabel()}, nil
		}
	}
	known, err := svc.Labels(ctx)
	if err != nil {
		return nil, err
	}
	labels := make([]tracker.Label, 0, len(names))
	for _, name := range names {
		found := false
		for _, label := range known {
			if label.Name == name {
				labels = append(labels, label)
				found = true
				break
			}
		}
		if !found {
			return nil, tracker.Validationf("invalid label name: %s", name)
		}
	}
	return labels, nil
}

// checkMilestone resolves a milestone title. "none" short-circuits to
// the remove sentinel; an empty title means no milestone.
func checkMilestone(ctx context.Context, svc tracker.Service, title string) (*tracker.Milestone, error) {
	if title == "" {
		return nil, nil
	}
	if title == tracker.SentinelName {
		sentinel := tracker.NoMilestone()
		return &sentinel, nil
	}
	milestones, err := svc.Milestones(ctx)
	if err != nil {
		return nil, err
	}
	for _, milestone := range milestones {
		if milestone.Title == title {
			return &milestone, nil
		}
	}
	return nil, tracker.Validationf("invalid milestone: %s", title)
}

// splitMessage turns a -m argument into a title and body: first line is
// the title, the remainder the body.
func splitMessage(message string) editor.Message {
	lines := strings.SplitN(message, "\n", 2)
	msg := editor.Message{Title: strings.TrimSpace(lines[0])}
	if len(lines) > 1 {
		msg.Body = strings.TrimSpace(lines[1])
	}
	return msg
}
