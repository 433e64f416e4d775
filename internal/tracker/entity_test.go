package tracker

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNumber string

func (n fakeNumber) String() string { return "#" + string(n) }
func (n fakeNumber) API() string    { return string(n) }

// fakeRemote records which operations were invoked.
type fakeRemote struct {
	commented bool
	edited    bool
	setState  string
}

func (r *fakeRemote) Comment(ctx context.Context, body string) (*Comment, error) {
	r.commented = true
	return NewComment("1", body, User{Username: "alice"}, "2024-03-01T10:00:00Z", "")
}

func (r *fakeRemote) Comments(ctx context.Context) ([]*Comment, error) { return nil, nil }
func (r *fakeRemote) Events(ctx context.Context) ([]*Event, error)     { return nil, nil }

func (r *fakeRemote) Edit(ctx context.Context, req *EditRequest) (*Issue, error) {
	r.edited = true
	return nil, nil
}

func (r *fakeRemote) SetState(ctx context.Context, state string) (*Issue, error) {
	r.setState = state
	return nil, nil
}

func (r *fakeRemote) URL() string { return "https://example.com/owner/repo/issues/1" }

func validSpec() IssueSpec {
	return IssueSpec{
		Number:  fakeNumber("1"),
		Title:   "flaky teardown in integration suite",
		State:   State{Name: StateOpen, Color: ColorGreen},
		Author:  User{ID: "7", Username: "alice"},
		Created: "2024-03-01T10:00:00Z",
	}
}

func TestNewIssueValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*IssueSpec)
	}{
		{"missing number", func(s *IssueSpec) { s.Number = nil }},
		{"missing title", func(s *IssueSpec) { s.Title = "" }},
		{"missing state", func(s *IssueSpec) { s.State = State{} }},
		{"missing created", func(s *IssueSpec) { s.Created = "" }},
		{"garbage created", func(s *IssueSpec) { s.Created = "yesterday" }},
		{"garbage updated", func(s *IssueSpec) { s.Updated = "tomorrow" }},
		{"negative comment count", func(s *IssueSpec) { s.NumComments = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			_, err := NewIssue(spec, &fakeRemote{})
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestNewIssueDedupesLabels(t *testing.T) {
	bug := Label{ID: "10", Name: "bug"}
	chore := Label{ID: "11", Name: "chore"}
	spec := validSpec()
	spec.Labels = []Label{bug, chore, bug}

	issue, err := NewIssue(spec, &fakeRemote{})
	require.NoError(t, err)
	assert.Equal(t, []Label{bug, chore}, issue.Labels)
}

func TestIssueEditEmptyRequestMakesNoCall(t *testing.T) {
	remote := &fakeRemote{}
	issue, err := NewIssue(validSpec(), remote)
	require.NoError(t, err)

	_, err = issue.Edit(context.Background(), &EditRequest{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "no changes")
	assert.False(t, remote.edited)
}

func TestIssueCloseWithComment(t *testing.T) {
	remote := &fakeRemote{}
	issue, err := NewIssue(validSpec(), remote)
	require.NoError(t, err)

	_, err = issue.Close(context.Background(), "fixed in 3f2a91c")
	require.NoError(t, err)
	assert.True(t, remote.commented)
	assert.Equal(t, StateClosed, remote.setState)
}

func TestIssueReopen(t *testing.T) {
	remote := &fakeRemote{}
	issue, err := NewIssue(validSpec(), remote)
	require.NoError(t, err)

	_, err = issue.Reopen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateOpen, remote.setState)
}

func TestNoMilestoneSentinel(t *testing.T) {
	m := NoMilestone()
	assert.Equal(t, "none", m.Title)
	assert.Equal(t, StateClosed, m.State)
	_, err := time.Parse(time.RFC3339, m.Due)
	assert.NoError(t, err)
	assert.True(t, m.None())
}

func TestNoLabelSentinel(t *testing.T) {
	l := NoLabel()
	assert.Equal(t, "none", l.Name)
	assert.Equal(t, "ffffff", l.Color.Hex())
	assert.True(t, l.None())
}

func TestActivityOrdering(t *testing.T) {
	mk := func(ts string) Activity {
		ev, err := NewEvent("closed this", User{Username: "alice"}, ts)
		require.NoError(t, err)
		return ev
	}
	a := mk("2024-03-01T09:00:00Z")
	b := mk("2024-03-01T10:00:00Z")
	c := mk("2024-03-01T11:00:00Z")

	// Any permutation must sort to [a, b, c].
	for i := 0; i < 10; i++ {
		items := []Activity{a, b, c}
		rand.Shuffle(len(items), func(x, y int) {
			items[x], items[y] = items[y], items[x]
		})
		SortActivity(items)
		assert.Equal(t, []Activity{a, b, c}, items)
	}
}

func TestSortIssuesNewestFirst(t *testing.T) {
	mk := func(ts string) *Issue {
		spec := validSpec()
		spec.Created = ts
		issue, err := NewIssue(spec, &fakeRemote{})
		require.NoError(t, err)
		return issue
	}
	older := mk("2024-01-01T00:00:00Z")
	newer := mk("2024-06-01T00:00:00Z")

	issues := []*Issue{older, newer}
	SortIssuesNewestFirst(issues)
	assert.Equal(t, []*Issue{newer, older}, issues)
}

func TestUserEquality(t *testing.T) {
	assert.True(t, User{ID: "1", Username: "a"}.Equal(User{ID: "1", Username: "b"}))
	assert.False(t, User{ID: "1"}.Equal(User{ID: "2"}))
	assert.True(t, User{Username: "a"}.Equal(User{Username: "a"}))
	assert.False(t, User{}.Equal(User{}))
}

func TestCommentValidation(t *testing.T) {
	_, err := NewComment("1", "", User{}, "2024-03-01T10:00:00Z", "")
	assert.True(t, IsValidation(err))

	_, err = NewComment("1", "body", User{}, "", "")
	assert.True(t, IsValidation(err))
}
