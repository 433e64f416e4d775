package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitforge/git-issue/internal/tracker"
)

// fakeService serves canned entities for the command tests.
type fakeService struct {
	users      []tracker.User
	labels     []tracker.Label
	milestones []tracker.Milestone

	create func(req tracker.CreateRequest) (*tracker.Issue, error)
}

func (s *fakeService) Create(ctx context.Context, req tracker.CreateRequest) (*tracker.Issue, error) {
	if s.create != nil {
		return s.create(req)
	}
	return nil, tracker.Backendf("not implemented")
}

func (s *fakeService) Issue(ctx context.Context, number string) (*tracker.Issue, error) {
	return nil, tracker.Backendf("not implemented")
}

func (s *fakeService) Issues(ctx context.Context, state string) ([]*tracker.Issue, error) {
	return nil, nil
}

func (s *fakeService) States(ctx context.Context) ([]tracker.State, error) {
	return nil, nil
}

func (s *fakeService) UserSearch(ctx context.Context, keyword string) ([]tracker.User, error) {
	if len(s.users) == 0 {
		return nil, tracker.Backendf("unable to find user: %s", keyword)
	}
	return s.users, nil
}

func (s *fakeService) Labels(ctx context.Context) ([]tracker.Label, error) {
	return s.labels, nil
}

func (s *fakeService) Milestones(ctx context.Context) ([]tracker.Milestone, error) {
	return s.milestones, nil
}

func testService(t *testing.T) *fakeService {
	t.Helper()
	bug, err := tracker.NewLabel("1", "bug", "ff0000")
	require.NoError(t, err)
	docs, err := tracker.NewLabel("2", "docs", "00ff00")
	require.NoError(t, err)
	v1, err := tracker.NewMilestone("10", "v1.0", "", "", "open")
	require.NoError(t, err)
	return &fakeService{
		users:      []tracker.User{{Username: "octocat", Name: "Octo Cat"}},
		labels:     []tracker.Label{bug, docs},
		milestones: []tracker.Milestone{v1},
	}
}

func TestCheckLabelsResolvesNames(t *testing.T) {
	labels, err := checkLabels(context.Background(), testService(t), []string{"docs", "bug"})
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "docs", labels[0].Name)
	assert.Equal(t, "bug", labels[1].Name)
}

func TestCheckLabelsUnknownNameFails(t *testing.T) {
	_, err := checkLabels(context.Background(), testService(t), []string{"bug", "urgent"})
	require.Error(t, err)
	assert.True(t, tracker.IsValidation(err))
	assert.Contains(t, err.Error(), "invalid label name: urgent")
}

func TestCheckLabelsNoneIsRemoveSentinel(t *testing.T) {
	labels, err := checkLabels(context.Background(), testService(t), []string{"bug", "none"})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.True(t, labels[0].None())
}

func TestCheckLabelsEmptyMeansNoChange(t *testing.T) {
	labels, err := checkLabels(context.Background(), testService(t), nil)
	require.NoError(t, err)
	assert.Nil(t, labels)
}

func TestCheckMilestoneResolvesTitle(t *testing.T) {
	milestone, err := checkMilestone(context.Background(), testService(t), "v1.0")
	require.NoError(t, err)
	require.NotNil(t, milestone)
	assert.Equal(t, "10", milestone.ID)
}

func TestCheckMilestoneNoneIsRemoveSentinel(t *testing.T) {
	milestone, err := checkMilestone(context.Background(), testService(t), "none")
	require.NoError(t, err)
	require.NotNil(t, milestone)
	assert.True(t, milestone.None())
}

func TestCheckMilestoneUnknownTitleFails(t *testing.T) {
	_, err := checkMilestone(context.Background(), testService(t), "v9.9")
	require.Error(t, err)
	assert.True(t, tracker.IsValidation(err))
	assert.Contains(t, err.Error(), "invalid milestone: v9.9")
}

func TestPickUserSingleMatchSkipsPrompt(t *testing.T) {
	prev := selectUser
	selectUser = func(keyword string, users []tracker.User) (*tracker.User, error) {
		t.Fatal("prompt must not run for a single match")
		return nil, nil
	}
	defer func() { selectUser = prev }()

	user, err := pickUser(context.Background(), testService(t), "octo")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "octocat", user.Username)
}

func TestPickUserMultipleMatchesPrompts(t *testing.T) {
	svc := testService(t)
	svc.users = append(svc.users, tracker.User{Username: "octodog"})

	prev := selectUser
	selectUser = func(keyword string, users []tracker.User) (*tracker.User, error) {
		assert.Equal(t, "octo", keyword)
		assert.Len(t, users, 2)
		return &users[1], nil
	}
	defer func() { selectUser = prev }()

	user, err := pickUser(context.Background(), svc, "octo")
	require.NoError(t, err)
	assert.Equal(t, "octodog", user.Username)
}

func TestPickUserEmptyKeywordMeansNoAssignee(t *testing.T) {
	user, err := pickUser(context.Background(), testService(t), "")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSplitMessageTitleAndBody(t *testing.T) {
	msg := splitMessage("crash on startup\nhappens every time\non linux")
	assert.Equal(t, "crash on startup", msg.Title)
	assert.Equal(t, "happens every time\non linux", msg.Body)
}

func TestSplitMessageTitleOnly(t *testing.T) {
	msg := splitMessage("crash on startup")
	assert.Equal(t, "crash on startup", msg.Title)
	assert.Empty(t, msg.Body)
}
