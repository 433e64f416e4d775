// Package github adapts the GitHub v3 REST API onto the tracker
// contracts. Listing follows the Link header; user detail is fetched
// lazily and memoized per adapter instance since list payloads omit
// name and email.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gitforge/git-issue/internal/tracker"
)

// Adapter implements tracker.Service for GitHub.
type Adapter struct {
	client    *Client
	apiURL    string
	reposURL  string
	issuesURL string

	// users memoizes secondary user-detail fetches for the lifetime of
	// this adapter instance.
	users map[int64]*userPayload
}

// New creates a GitHub adapter from resolved configuration.
func New(cfg tracker.Config) *Adapter {
	apiURL := fmt.Sprintf("%s://api.%s", cfg.Protocol, cfg.Host)
	reposURL := fmt.Sprintf("%s/repos/%s", apiURL, cfg.Repo)
	return &Adapter{
		client:    NewClient(cfg.Token),
		apiURL:    apiURL,
		reposURL:  reposURL,
		issuesURL: reposURL + "/issues",
		users:     make(map[int64]*userPayload),
	}
}

// Create opens a new issue.
func (a *Adapter) Create(ctx context.Context, req tracker.CreateRequest) (*tracker.Issue, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	data := map[string]any{"title": req.Title, "body": req.Body}
	if req.Assignee != nil {
		data["assignees"] = []string{req.Assignee.Username}
	}
	if req.Milestone != nil {
		data["milestone"] = milestoneNumber(*req.Milestone)
	}
	if len(req.Labels) > 0 {
		data["labels"] = labelNames(req.Labels)
	}
	var payload issuePayload
	if err := a.client.Post(ctx, a.issuesURL, data, &payload); err != nil {
		return nil, err
	}
	return a.newIssue(ctx, payload)
}

// Issue fetches a single issue by number.
func (a *Adapter) Issue(ctx context.Context, number string) (*tracker.Issue, error) {
	if _, err := strconv.Atoi(number); err != nil {
		return nil, tracker.Validationf("invalid issue number: %s", number)
	}
	var payload issuePayload
	if err := a.client.Get(ctx, a.issuesURL+"/"+number, nil, &payload); err != nil {
		return nil, err
	}
	return a.newIssue(ctx, payload)
}

// Issues lists issues in the given state, following the Link header
// until no next page remains. GitHub filters all three states natively.
func (a *Adapter) Issues(ctx context.Context, state string) ([]*tracker.Issue, error) {
	switch state {
	case tracker.StateOpen, tracker.StateClosed, tracker.StateAll:
	default:
		return nil, tracker.Validationf(
			`state must be one of "open", "closed", "all": %q`, state)
	}

	var issues []*tracker.Issue
	next := a.issuesURL
	query := url.Values{"state": {state}}
	for next != "" {
		var page []issuePayload
		nextURL, err := a.client.GetPaged(ctx, next, query, &page)
		if err != nil {
			return nil, err
		}
		for _, payload := range page {
			issue, err := a.newIssue(ctx, payload)
			if err != nil {
				return nil, err
			}
			issues = append(issues, issue)
		}
		// Link header URLs carry their own query.
		next, query = nextURL, nil
	}
	return issues, nil
}

// States returns GitHub's fixed state vocabulary.
func (a *Adapter) States(ctx context.Context) ([]tracker.State, error) {
	return []tracker.State{
		{Name: tracker.StateOpen, Color: tracker.ColorGreen},
		{Name: tracker.StateClosed, Color: tracker.ColorRed},
		{Name: tracker.StateAll, Color: tracker.ColorDefault},
	}, nil
}

// UserSearch finds users matching keyword.
func (a *Adapter) UserSearch(ctx context.Context, keyword string) ([]tracker.User, error) {
	var payload userSearchPayload
	query := url.Values{"q": {keyword}}
	if err := a.client.Get(ctx, a.apiURL+"/search/users", query, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, &tracker.BackendError{
			StatusCode: 404,
			Message:    fmt.Sprintf("unable to find user: %s", keyword),
		}
	}
	users := make([]tracker.User, 0, len(payload.Items))
	for _, item := range payload.Items {
		users = append(users, a.user(ctx, item))
	}
	return users, nil
}

// Labels lists the repository's labels.
func (a *Adapter) Labels(ctx context.Context) ([]tracker.Label, error) {
	var payload []labelPayload
	if err := a.client.Get(ctx, a.reposURL+"/labels", nil, &payload); err != nil {
		return nil, err
	}
	labels := make([]tracker.Label, 0, len(payload))
	for _, p := range payload {
		label, err := newLabel(p)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// Milestones lists the repository's milestones.
func (a *Adapter) Milestones(ctx context.Context) ([]tracker.Milestone, error) {
	var payload []milestonePayload
	if err := a.client.Get(ctx, a.reposURL+"/milestones", nil, &payload); err != nil {
		return nil, err
	}
	milestones := make([]tracker.Milestone, 0, len(payload))
	for _, p := range payload {
		milestone, err := newMilestone(p)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, milestone)
	}
	return milestones, nil
}

// user converts a user reference, fetching and memoizing the account
// detail (name, email) the list payloads omit. A failed detail fetch
// degrades to the login-only form rather than failing the operation,
// and the failure is memoized too so the endpoint is hit once per run.
func (a *Adapter) user(ctx context.Context, p userPayload) tracker.User {
	detail, cached := a.users[p.ID]
	if !cached && p.URL != "" {
		var fetched userPayload
		if err := a.client.Get(ctx, p.URL, nil, &fetched); err == nil {
			detail = &fetched
		}
		a.users[p.ID] = detail
	}
	user := tracker.User{
		ID:       strconv.FormatInt(p.ID, 10),
		Username: p.Login,
	}
	if detail != nil {
		user.Name = detail.Name
		user.Email = detail.Email
	}
	return user
}

func (a *Adapter) newIssue(ctx context.Context, payload issuePayload) (*tracker.Issue, error) {
	labels := make([]tracker.Label, 0, len(payload.Labels))
	for _, p := range payload.Labels {
		label, err := newLabel(p)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	var milestones []tracker.Milestone
	if payload.Milestone != nil {
		milestone, err := newMilestone(*payload.Milestone)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, milestone)
	}
	var assignee *tracker.User
	if payload.Assignee != nil {
		resolved := a.user(ctx, *payload.Assignee)
		assignee = &resolved
	}
	spec := tracker.IssueSpec{
		Number:      number{value: payload.Number, id: payload.ID},
		Title:       payload.Title,
		Body:        payload.Body,
		State:       stateOf(payload.State),
		Author:      a.user(ctx, payload.User),
		Created:     payload.CreatedAt,
		Updated:     payload.UpdatedAt,
		Assignee:    assignee,
		Labels:      labels,
		Milestones:  milestones,
		NumComments: payload.Comments,
	}
	remote := &issueRemote{
		adapter:     a,
		issueURL:    payload.URL,
		commentsURL: payload.CommentsURL,
		eventsURL:   payload.EventsURL,
		htmlURL:     payload.HTMLURL,
	}
	return tracker.NewIssue(spec, remote)
}

func (a *Adapter) newComment(ctx context.Context, payload commentPayload) (*tracker.Comment, error) {
	return tracker.NewComment(
		strconv.FormatInt(payload.ID, 10),
		payload.Body,
		a.user(ctx, payload.User),
		payload.CreatedAt,
		payload.HTMLURL,
	)
}

func newLabel(p labelPayload) (tracker.Label, error) {
	return tracker.NewLabel(strconv.FormatInt(p.ID, 10), p.Name, p.Color)
}

// newMilestone keys the entity by GitHub's per-repository milestone
// number rather than the global id, since the number is what the issue
// endpoints address milestones by.
func newMilestone(p milestonePayload) (tracker.Milestone, error) {
	return tracker.NewMilestone(
		strconv.Itoa(p.Number), p.Title, p.Description, p.DueOn, p.State)
}

func stateOf(name string) tracker.State {
	switch name {
	case tracker.StateOpen:
		return tracker.State{Name: name, Color: tracker.ColorGreen}
	case tracker.StateClosed:
		return tracker.State{Name: name, Color: tracker.ColorRed}
	default:
		return tracker.State{Name: name, Color: tracker.ColorDefault}
	}
}

func labelNames(labels []tracker.Label) []string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.Name)
	}
	return names
}

// milestoneNumber recovers the wire milestone number from the entity id.
func milestoneNumber(m tracker.Milestone) int {
	n, _ := strconv.Atoi(m.ID)
	return n
}

// number is GitHub's issue identity: a per-repository integer.
type number struct {
	value int
	id    int64
}

func (n number) String() string {
	return "#" + strconv.Itoa(n.value)
}

func (n number) API() string {
	return strconv.Itoa(n.value)
}

// issueRemote binds per-issue operations to the endpoints GitHub embeds
// in issue payloads.
type issueRemote struct {
	adapter     *Adapter
	issueURL    string
	commentsURL string
	eventsURL   string
	htmlURL     string
}

func (r *issueRemote) Comment(ctx context.Context, body string) (*tracker.Comment, error) {
	var payload commentPayload
	if err := r.adapter.client.Post(ctx, r.commentsURL, map[string]string{"body": body}, &payload); err != nil {
		return nil, err
	}
	return r.adapter.newComment(ctx, payload)
}

func (r *issueRemote) Comments(ctx context.Context) ([]*tracker.Comment, error) {
	var payload []commentPayload
	if err := r.adapter.client.Get(ctx, r.commentsURL, nil, &payload); err != nil {
		return nil, err
	}
	comments := make([]*tracker.Comment, 0, len(payload))
	for _, p := range payload {
		comment, err := r.adapter.newComment(ctx, p)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func (r *issueRemote) Events(ctx context.Context) ([]*tracker.Event, error) {
	var payload []eventPayload
	if err := r.adapter.client.Get(ctx, r.eventsURL, nil, &payload); err != nil {
		return nil, err
	}
	events := make([]*tracker.Event, 0, len(payload))
	for _, p := range payload {
		event, err := tracker.NewEvent(
			r.adapter.describeEvent(ctx, p),
			r.adapter.user(ctx, p.Actor),
			p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *issueRemote) Edit(ctx context.Context, req *tracker.EditRequest) (*tracker.Issue, error) {
	data := map[string]any{}
	if req.Title.Op() == tracker.ChangeSet {
		data["title"] = req.Title.Value()
	}
	if req.Body.Op() == tracker.ChangeSet {
		data["body"] = req.Body.Value()
	}
	switch req.Assignee.Op() {
	case tracker.ChangeSet:
		data["assignees"] = []string{req.Assignee.Value().Username}
	case tracker.ChangeClear:
		data["assignees"] = []string{}
	}
	switch req.Labels.Op() {
	case tracker.ChangeSet:
		data["labels"] = labelNames(req.Labels.Value())
	case tracker.ChangeClear:
		data["labels"] = []string{}
	}
	switch req.Milestone.Op() {
	case tracker.ChangeSet:
		data["milestone"] = milestoneNumber(req.Milestone.Value())
	case tracker.ChangeClear:
		data["milestone"] = nil
	}
	var payload issuePayload
	if err := r.adapter.client.Patch(ctx, r.issueURL, data, &payload); err != nil {
		return nil, err
	}
	return r.adapter.newIssue(ctx, payload)
}

func (r *issueRemote) SetState(ctx context.Context, state string) (*tracker.Issue, error) {
	var payload issuePayload
	if err := r.adapter.client.Patch(ctx, r.issueURL, map[string]string{"state": state}, &payload); err != nil {
		return nil, err
	}
	return r.adapter.newIssue(ctx, payload)
}

func (r *issueRemote) URL() string {
	return r.htmlURL
}

// describeEvent renders a GitHub event into descriptive text. Only a
// curated subset has bespoke wording; anything else surfaces as the raw
// event identifier with underscores replaced by spaces, never dropped.
func (a *Adapter) describeEvent(ctx context.Context, p eventPayload) string {
	switch p.Event {
	case "closed":
		if p.CommitID != "" {
			return "closed this by " + shortSHA(p.CommitID)
		}
		return "closed this"
	case "reopened":
		return "reopened this"
	case "subscribed":
		return "subscribed to this"
	case "merged":
		if p.CommitID != "" {
			return "merged by " + shortSHA(p.CommitID)
		}
		return "merged"
	case "referenced":
		return "referenced by " + shortSHA(p.CommitID)
	case "mentioned":
		return "mentioned this"
	case "assigned":
		if p.Assignee != nil && p.Assigner != nil && p.Assignee.ID == p.Assigner.ID {
			return "self-assigned this"
		}
		if p.Assignee != nil {
			return "assigned this to " + a.user(ctx, *p.Assignee).String()
		}
		return "assigned this"
	case "unassigned":
		return "removed assignment"
	case "labeled":
		if p.Label != nil {
			return fmt.Sprintf("added the %s label", p.Label.Name)
		}
		return "added a label"
	case "unlabeled":
		if p.Label != nil {
			return fmt.Sprintf("removed the %s label", p.Label.Name)
		}
		return "removed a label"
	case "milestoned":
		if p.Milestone != nil {
			return fmt.Sprintf("added this to the %s milestone", p.Milestone.Title)
		}
		return "added this to a milestone"
	case "demilestoned":
		if p.Milestone != nil {
			return fmt.Sprintf("removed from the %s milestone", p.Milestone.Title)
		}
		return "removed from a milestone"
	case "renamed":
		if p.Rename != nil {
			return fmt.Sprintf("changed the title from %s to %s", p.Rename.From, p.Rename.To)
		}
		return "changed the title"
	case "locked":
		if p.LockReason != "" {
			return fmt.Sprintf("locked as %s and limited conversation to collaborators", p.LockReason)
		}
		return "locked and limited conversation to collaborators"
	case "unlocked":
		return "unlocked this conversation"
	case "added_to_project":
		if p.Project != nil {
			return "added to project " + p.Project.Name
		}
		return "added to project"
	case "removed_from_project":
		if p.Project != nil {
			return "removed from project " + p.Project.Name
		}
		return "removed from project"
	default:
		return strings.ReplaceAll(p.Event, "_", " ")
	}
}
