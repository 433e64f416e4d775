package tracker

import (
	"context"
	"sort"
	"time"
)

// IssueRemote is the per-backend binding an adapter attaches to each
// Issue it produces. Every method performs HTTP against the backend; the
// Issue wrapper validates locally checkable preconditions first.
type IssueRemote interface {
	Comment(ctx context.Context, body string) (*Comment, error)
	Comments(ctx context.Context) ([]*Comment, error)
	Events(ctx context.Context) ([]*Event, error)
	Edit(ctx context.Context, req *EditRequest) (*Issue, error)
	SetState(ctx context.Context, state string) (*Issue, error)
	URL() string
}

// IssueSpec is the raw material an adapter hands to NewIssue. Timestamps
// are the backend's string encodings; NewIssue parses and validates them.
type IssueSpec struct {
	Number      Number
	Title       string
	Body        string
	State       State
	Author      User
	Created     string
	Updated     string
	Assignee    *User
	Labels      []Label
	Milestones  []Milestone
	NumComments int
}

// Issue is a backend-agnostic issue. Instances are produced by adapters
// per request and mutated only through the remote operations, which
// return fresh instances.
type Issue struct {
	Number      Number
	Title       string
	Body        string
	State       State
	Author      User
	Created     time.Time
	Updated     time.Time
	Assignee    *User
	Labels      []Label
	Milestones  []Milestone
	NumComments int

	remote IssueRemote
}

// NewIssue validates a backend payload against the entity invariants and
// binds the remote operations. A malformed payload is a ValidationError.
func NewIssue(spec IssueSpec, remote IssueRemote) (*Issue, error) {
	if spec.Number == nil {
		return nil, Validationf("issue number is required")
	}
	if spec.Title == "" {
		return nil, Validationf("issue %s has no title", spec.Number)
	}
	if spec.State.Name == "" {
		return nil, Validationf("issue %s has no state", spec.Number)
	}
	if spec.NumComments < 0 {
		return nil, Validationf("issue %s has a negative comment count", spec.Number)
	}
	created, err := ParseTime(spec.Created)
	if err != nil {
		return nil, err
	}
	var updated time.Time
	if spec.Updated != "" {
		if updated, err = ParseTime(spec.Updated); err != nil {
			return nil, err
		}
	}
	return &Issue{
		Number:      spec.Number,
		Title:       spec.Title,
		Body:        spec.Body,
		State:       spec.State,
		Author:      spec.Author,
		Created:     created,
		Updated:     updated,
		Assignee:    spec.Assignee,
		Labels:      dedupeLabels(spec.Labels),
		Milestones:  spec.Milestones,
		NumComments: spec.NumComments,
		remote:      remote,
	}, nil
}

// dedupeLabels drops duplicate labels by identity, preserving order.
func dedupeLabels(labels []Label) []Label {
	if len(labels) < 2 {
		return labels
	}
	out := make([]Label, 0, len(labels))
	for _, label := range labels {
		duplicate := false
		for _, kept := range out {
			if kept.Equal(label) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, label)
		}
	}
	return out
}

// Comment adds a comment to the issue.
func (i *Issue) Comment(ctx context.Context, body string) (*Comment, error) {
	if body == "" {
		return nil, Validationf("aborted due to empty message")
	}
	return i.remote.Comment(ctx, body)
}

// Comments fetches the issue's comments, ordered by creation time.
func (i *Issue) Comments(ctx context.Context) ([]*Comment, error) {
	comments, err := i.remote.Comments(ctx)
	if err != nil {
		return nil, err
	}
	SortComments(comments)
	return comments, nil
}

// Events fetches the issue's events, ordered by creation time.
func (i *Issue) Events(ctx context.Context) ([]*Event, error) {
	events, err := i.remote.Events(ctx)
	if err != nil {
		return nil, err
	}
	SortEvents(events)
	return events, nil
}

// Edit applies the requested field changes and returns the updated issue.
// A request with no effective changes is a ValidationError and issues no
// HTTP request.
func (i *Issue) Edit(ctx context.Context, req *EditRequest) (*Issue, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	return i.remote.Edit(ctx, req)
}

// Close closes the issue, optionally posting a comment first. The caller
// is responsible for checking the issue is open; the adapter does not
// re-check.
func (i *Issue) Close(ctx context.Context, comment string) (*Issue, error) {
	if comment != "" {
		if _, err := i.remote.Comment(ctx, comment); err != nil {
			return nil, err
		}
	}
	return i.remote.SetState(ctx, StateClosed)
}

// Reopen reopens the issue. The caller is responsible for checking the
// issue is closed.
func (i *Issue) Reopen(ctx context.Context) (*Issue, error) {
	return i.remote.SetState(ctx, StateOpen)
}

// URL returns the issue's HTML URL.
func (i *Issue) URL() string {
	return i.remote.URL()
}

// Before orders issues by creation time.
func (i *Issue) Before(other *Issue) bool {
	return i.Created.Before(other.Created)
}

// SortIssuesNewestFirst orders issues reverse-chronologically by creation
// time, the listing order for backends that sort explicitly.
func SortIssuesNewestFirst(issues []*Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		return issues[b].Created.Before(issues[a].Created)
	})
}
