// Package jira adapts the JIRA v2 REST API onto the tracker contracts.
// JIRA is read-mostly here: comments can be added, but issue creation
// and mutation go through JIRA's own workflow tooling and are reported
// as unsupported. Events come from the issue changelog, and project
// components and versions stand in for labels and milestones.
package jira

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gitforge/git-issue/internal/tracker"
)

// issueFields is the field subset requested on every issue fetch.
const issueFields = "assignee,comment,created,description,components,reporter,status,summary,updated,fixVersions"

// componentColor is the hex color assigned to every label, since JIRA
// components carry no color of their own.
const componentColor = "0000ff"

// Adapter implements tracker.Service for JIRA.
type Adapter struct {
	client  *Client
	baseURL string
	apiURL  string
	key     string
}

// New creates a JIRA adapter from resolved configuration. The project
// key scopes every search and listing.
func New(cfg tracker.Config) *Adapter {
	return &Adapter{
		client:  NewClient(cfg.Token),
		baseURL: cfg.BaseURL,
		apiURL:  cfg.BaseURL + "/rest/api/2",
		key:     cfg.Project,
	}
}

// Create reports that issue creation is unsupported.
func (a *Adapter) Create(ctx context.Context, req tracker.CreateRequest) (*tracker.Issue, error) {
	return nil, tracker.Backendf("creating issues is not supported by JIRA")
}

// Issue fetches a single issue by key, with the changelog expanded for
// event rendering.
func (a *Adapter) Issue(ctx context.Context, number string) (*tracker.Issue, error) {
	query := url.Values{
		"fields": {issueFields},
		"expand": {"changelog"},
	}
	var payload issuePayload
	if err := a.client.Get(ctx, a.apiURL+"/issue/"+number, query, &payload); err != nil {
		return nil, err
	}
	return a.newIssue(payload)
}

// Issues lists the project's issues in the given state. The shared
// open/closed/all names map onto status categories; any other non-empty
// name passes through as a native status filter.
func (a *Adapter) Issues(ctx context.Context, state string) ([]*tracker.Issue, error) {
	if state == "" {
		return nil, tracker.Validationf("state must not be empty")
	}
	jql := fmt.Sprintf("project=%q", a.key)
	switch state {
	case tracker.StateOpen:
		jql += ` AND statusCategory!="Done"`
	case tracker.StateClosed:
		jql += ` AND statusCategory="Done"`
	case tracker.StateAll:
	default:
		jql += fmt.Sprintf(" AND status=%q", state)
	}

	var issues []*tracker.Issue
	startAt := 0
	for {
		query := url.Values{
			"jql":     {jql},
			"startAt": {fmt.Sprint(startAt)},
			"fields":  {issueFields},
		}
		var page searchPayload
		if err := a.client.Get(ctx, a.apiURL+"/search", query, &page); err != nil {
			return nil, err
		}
		for _, payload := range page.Issues {
			issue, err := a.newIssue(payload)
			if err != nil {
				return nil, err
			}
			issues = append(issues, issue)
		}
		// A page that cannot advance the offset would repeat the same
		// request forever.
		if page.MaxResults <= 0 {
			return nil, tracker.Backendf("malformed search page at offset %d", startAt)
		}
		startAt += page.MaxResults
		if startAt > page.Total || len(page.Issues) == 0 {
			break
		}
	}
	return issues, nil
}

// States returns the instance's workflow statuses colored by their
// status category.
func (a *Adapter) States(ctx context.Context) ([]tracker.State, error) {
	var payload []statusPayload
	if err := a.client.Get(ctx, a.apiURL+"/status", nil, &payload); err != nil {
		return nil, err
	}
	states := make([]tracker.State, 0, len(payload))
	for _, p := range payload {
		states = append(states, stateOf(p))
	}
	return states, nil
}

// UserSearch finds users matching keyword.
func (a *Adapter) UserSearch(ctx context.Context, keyword string) ([]tracker.User, error) {
	var payload []userPayload
	query := url.Values{"username": {keyword}}
	if err := a.client.Get(ctx, a.apiURL+"/user/search", query, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, &tracker.BackendError{
			StatusCode: 404,
			Message:    fmt.Sprintf("unable to find user: %s", keyword),
		}
	}
	users := make([]tracker.User, 0, len(payload))
	for _, p := range payload {
		users = append(users, newUser(p))
	}
	return users, nil
}

// Labels surfaces the project's components as labels. Components have no
// color, so all labels share one.
func (a *Adapter) Labels(ctx context.Context) ([]tracker.Label, error) {
	var payload struct {
		Components []componentPayload `json:"components"`
	}
	if err := a.client.Get(ctx, a.apiURL+"/project/"+a.key, nil, &payload); err != nil {
		return nil, err
	}
	labels := make([]tracker.Label, 0, len(payload.Components))
	for _, p := range payload.Components {
		label, err := newLabel(p)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// Milestones surfaces the project's versions as milestones.
func (a *Adapter) Milestones(ctx context.Context) ([]tracker.Milestone, error) {
	var payload []versionPayload
	if err := a.client.Get(ctx, a.apiURL+"/project/"+a.key+"/versions", nil, &payload); err != nil {
		return nil, err
	}
	milestones := make([]tracker.Milestone, 0, len(payload))
	for _, p := range payload {
		milestone, err := tracker.NewMilestone(p.ID, p.Name, p.Description, p.ReleaseDate, "")
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, milestone)
	}
	return milestones, nil
}

func (a *Adapter) newIssue(payload issuePayload) (*tracker.Issue, error) {
	fields := payload.Fields
	labels := make([]tracker.Label, 0, len(fields.Components))
	for _, p := range fields.Components {
		label, err := newLabel(p)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	milestones := make([]tracker.Milestone, 0, len(fields.FixVersions))
	for _, p := range fields.FixVersions {
		milestone, err := tracker.NewMilestone(p.ID, p.Name, p.Description, p.ReleaseDate, "")
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, milestone)
	}
	var assignee *tracker.User
	if fields.Assignee != nil {
		resolved := newUser(*fields.Assignee)
		assignee = &resolved
	}
	spec := tracker.IssueSpec{
		Number:      number(payload.Key),
		Title:       fields.Summary,
		Body:        fields.Description,
		State:       stateOf(fields.Status),
		Author:      newUser(fields.Reporter),
		Created:     fields.Created,
		Updated:     fields.Updated,
		Assignee:    assignee,
		Labels:      labels,
		Milestones:  milestones,
		NumComments: fields.Comment.Total,
	}
	remote := &issueRemote{
		adapter:  a,
		key:      payload.Key,
		selfURL:  payload.Self,
		comments: fields.Comment.Comments,
	}
	if payload.Changelog != nil {
		remote.histories = payload.Changelog.Histories
	}
	return tracker.NewIssue(spec, remote)
}

func newUser(p userPayload) tracker.User {
	return tracker.User{
		Username: p.Name,
		Email:    p.EmailAddress,
		Name:     p.DisplayName,
	}
}

func newLabel(p componentPayload) (tracker.Label, error) {
	return tracker.NewLabel(p.ID, p.Name, componentColor)
}

// stateOf colors a status by its category. Categories outside the known
// trio fall back to white rather than the terminal default, so JIRA
// statuses stay visually distinct from the synthetic "all" state.
func stateOf(p statusPayload) tracker.State {
	color := tracker.ColorWhite
	switch p.StatusCategory.ColorName {
	case "blue-gray":
		color = tracker.ColorBlue
	case "yellow":
		color = tracker.ColorBrightYellow
	case "green":
		color = tracker.ColorGreen
	}
	return tracker.State{Name: p.Name, Color: color}
}

// number is JIRA's issue identity: the project-scoped key, rendered
// without decoration.
type number string

func (n number) String() string {
	return string(n)
}

func (n number) API() string {
	return string(n)
}

// issueRemote binds per-issue operations. Comments and the changelog
// arrive with the issue payload, so reading them issues no further HTTP.
type issueRemote struct {
	adapter   *Adapter
	key       string
	selfURL   string
	comments  []commentPayload
	histories []historyPayload
}

func (r *issueRemote) Comment(ctx context.Context, body string) (*tracker.Comment, error) {
	var payload commentPayload
	if err := r.adapter.client.Post(ctx, r.selfURL+"/comment", map[string]string{"body": body}, &payload); err != nil {
		return nil, err
	}
	return r.newComment(payload)
}

func (r *issueRemote) Comments(ctx context.Context) ([]*tracker.Comment, error) {
	comments := make([]*tracker.Comment, 0, len(r.comments))
	for _, p := range r.comments {
		comment, err := r.newComment(p)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func (r *issueRemote) Events(ctx context.Context) ([]*tracker.Event, error) {
	var events []*tracker.Event
	for _, history := range r.histories {
		text := describeHistory(history)
		if text == "" {
			continue
		}
		event, err := tracker.NewEvent(text, newUser(history.Author), history.Created)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *issueRemote) Edit(ctx context.Context, req *tracker.EditRequest) (*tracker.Issue, error) {
	return nil, tracker.Backendf("editing issues is not supported by JIRA")
}

func (r *issueRemote) SetState(ctx context.Context, state string) (*tracker.Issue, error) {
	return nil, tracker.Backendf("changing issue state is not supported by JIRA")
}

func (r *issueRemote) URL() string {
	return r.adapter.baseURL + "/browse/" + r.key
}

func (r *issueRemote) newComment(payload commentPayload) (*tracker.Comment, error) {
	permalink := r.URL() + "?focusedCommentId=" + payload.ID
	return tracker.NewComment(payload.ID, payload.Body, newUser(payload.Author), payload.Created, permalink)
}
