package tracker

import "time"

// Milestone groups issues under a title with an optional due date. Some
// backends support a single milestone per issue, others several.
type Milestone struct {
	ID          string
	Title       string
	Description string

	// Due is the backend's date string, empty when no due date is set.
	Due string

	State string
}

// NewMilestone validates and constructs a Milestone.
func NewMilestone(id, title, description, due, state string) (Milestone, error) {
	if title == "" {
		return Milestone{}, Validationf("milestone title must not be empty")
	}
	return Milestone{
		ID:          id,
		Title:       title,
		Description: description,
		Due:         due,
		State:       state,
	}, nil
}

// NoMilestone returns the sentinel milestone meaning "remove milestone".
// It carries a valid due date so consumers can parse it uniformly.
func NoMilestone() Milestone {
	return Milestone{
		Title: SentinelName,
		State: StateClosed,
		Due:   time.Now().UTC().Format(time.RFC3339),
	}
}

// None reports whether the milestone is the remove sentinel.
func (m Milestone) None() bool {
	return m.Title == SentinelName
}

// Equal compares milestones by backend-assigned id when both carry one,
// falling back to title.
func (m Milestone) Equal(other Milestone) bool {
	if m.ID != "" && other.ID != "" {
		return m.ID == other.ID
	}
	return m.Title == other.Title
}
