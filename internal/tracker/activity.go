package tracker

import (
	"sort"
	"time"
)

// Comment is a free-text comment on an issue, ordered by creation time.
type Comment struct {
	ID      string
	Body    string
	Author  User
	Created time.Time

	// Permalink is the direct HTML URL to the comment.
	Permalink string
}

// NewComment validates and constructs a Comment from a backend payload.
func NewComment(id, body string, author User, created, permalink string) (*Comment, error) {
	if body == "" {
		return nil, Validationf("comment body must not be empty")
	}
	at, err := ParseTime(created)
	if err != nil {
		return nil, err
	}
	return &Comment{
		ID:        id,
		Body:      body,
		Author:    author,
		Created:   at,
		Permalink: permalink,
	}, nil
}

// URL returns the comment permalink.
func (c *Comment) URL() string {
	return c.Permalink
}

// When implements Activity.
func (c *Comment) When() time.Time {
	return c.Created
}

// Event is a state-changing or metadata-changing action recorded against
// an issue, distinct from a free-text comment. Text is a human-readable
// description synthesized by the adapter.
type Event struct {
	Text    string
	Actor   User
	Created time.Time
}

// NewEvent validates and constructs an Event.
func NewEvent(text string, actor User, created string) (*Event, error) {
	if text == "" {
		return nil, Validationf("event description must not be empty")
	}
	at, err := ParseTime(created)
	if err != nil {
		return nil, err
	}
	return &Event{Text: text, Actor: actor, Created: at}, nil
}

// When implements Activity.
func (e *Event) When() time.Time {
	return e.Created
}

// Activity is anything dated that appears in an issue's history. Comments
// and events both implement it so consumers can interleave them into one
// chronological feed.
type Activity interface {
	When() time.Time
}

// SortActivity orders items chronologically by creation time.
func SortActivity(items []Activity) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].When().Before(items[j].When())
	})
}

// SortComments orders comments chronologically by creation time.
func SortComments(comments []*Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Created.Before(comments[j].Created)
	})
}

// SortEvents orders events chronologically by creation time.
func SortEvents(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Created.Before(events[j].Created)
	})
}
