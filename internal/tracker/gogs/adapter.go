// Package gogs adapts the Gogs v1 REST API onto the tracker contracts.
// Gogs has no event endpoint; state changes surface as comments with an
// empty body, which the adapter reconstructs into events by folding over
// the activity list while carrying the issue's known current state.
// Label edits are not part of the issue PATCH and go through dedicated
// replace and clear calls instead.
package gogs

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/gitforge/git-issue/internal/tracker"
)

// Adapter implements tracker.Service for Gogs.
type Adapter struct {
	client   *Client
	apiURL   string
	reposURL string

	// htmlBase is the repository's web root for permalinks.
	htmlBase string
}

// New creates a Gogs adapter from resolved configuration.
func New(cfg tracker.Config) *Adapter {
	apiURL := cfg.BaseURL + "/api/v1"
	return &Adapter{
		client:   NewClient(cfg.Token),
		apiURL:   apiURL,
		reposURL: fmt.Sprintf("%s/repos/%s", apiURL, cfg.Repo),
		htmlBase: fmt.Sprintf("%s/%s", cfg.BaseURL, cfg.Repo),
	}
}

func (a *Adapter) issuesURL() string {
	return a.reposURL + "/issues"
}

// Create opens a new issue. Gogs addresses labels and milestones by
// their numeric ids.
func (a *Adapter) Create(ctx context.Context, req tracker.CreateRequest) (*tracker.Issue, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	data := map[string]any{"title": req.Title, "body": req.Body}
	if req.Assignee != nil {
		data["assignee"] = req.Assignee.Username
	}
	if len(req.Labels) > 0 {
		data["labels"] = labelIDs(req.Labels)
	}
	if req.Milestone != nil {
		data["milestone"] = milestoneID(*req.Milestone)
	}
	var payload issuePayload
	if err := a.client.Post(ctx, a.issuesURL(), data, &payload); err != nil {
		return nil, err
	}
	return a.newIssue(payload)
}

// Issue fetches a single issue by number.
func (a *Adapter) Issue(ctx context.Context, number string) (*tracker.Issue, error) {
	if _, err := strconv.Atoi(number); err != nil {
		return nil, tracker.Validationf("invalid issue number: %s", number)
	}
	var payload issuePayload
	if err := a.client.Get(ctx, a.issuesURL()+"/"+number, nil, &payload); err != nil {
		return nil, err
	}
	return a.newIssue(payload)
}

// Issues lists issues in the given state, newest first. Gogs filters
// only open and closed natively, so "all" issues one listing per state.
func (a *Adapter) Issues(ctx context.Context, state string) ([]*tracker.Issue, error) {
	var bucket []string
	switch state {
	case tracker.StateOpen, tracker.StateClosed:
		bucket = []string{state}
	case tracker.StateAll:
		bucket = []string{tracker.StateOpen, tracker.StateClosed}
	default:
		return nil, tracker.Validationf(
			`state must be one of "open", "closed", "all": %q`, state)
	}

	var issues []*tracker.Issue
	for _, s := range bucket {
		next := a.issuesURL()
		query := url.Values{"state": {s}}
		for next != "" {
			var page []issuePayload
			nextURL, err := a.client.GetPaged(ctx, next, query, &page)
			if err != nil {
				return nil, err
			}
			for _, payload := range page {
				issue, err := a.newIssue(payload)
				if err != nil {
					return nil, err
				}
				issues = append(issues, issue)
			}
			next, query = nextURL, nil
		}
	}
	tracker.SortIssuesNewestFirst(issues)
	return issues, nil
}

// States returns Gogs's fixed state vocabulary.
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
	if err := a.client.Get(ctx, a.apiURL+"/users/search", query, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, &tracker.BackendError{
			StatusCode: 404,
			Message:    fmt.Sprintf("unable to find user: %s", keyword),
		}
	}
	users := make([]tracker.User, 0, len(payload.Data))
	for _, p := range payload.Data {
		users = append(users, newUser(p))
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

func (a *Adapter) newIssue(payload issuePayload) (*tracker.Issue, error) {
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
		resolved := newUser(*payload.Assignee)
		assignee = &resolved
	}
	spec := tracker.IssueSpec{
		Number:      number{value: payload.Number, id: payload.ID},
		Title:       payload.Title,
		Body:        payload.Body,
		State:       stateOf(payload.State),
		Author:      newUser(payload.User),
		Created:     payload.CreatedAt,
		Updated:     payload.UpdatedAt,
		Assignee:    assignee,
		Labels:      labels,
		Milestones:  milestones,
		NumComments: payload.Comments,
	}
	remote := &issueRemote{
		adapter: a,
		number:  payload.Number,
		state:   spec.State.Name,
	}
	return tracker.NewIssue(spec, remote)
}

func newUser(p userPayload) tracker.User {
	return tracker.User{
		ID:       strconv.FormatInt(p.ID, 10),
		Username: p.Username,
		Email:    p.Email,
		Name:     p.FullName,
	}
}

func newLabel(p labelPayload) (tracker.Label, error) {
	return tracker.NewLabel(strconv.FormatInt(p.ID, 10), p.Name, p.Color)
}

func newMilestone(p milestonePayload) (tracker.Milestone, error) {
	return tracker.NewMilestone(
		strconv.FormatInt(p.ID, 10), p.Title, p.Description, p.DueOn, p.State)
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

func labelIDs(labels []tracker.Label) []int64 {
	ids := make([]int64, 0, len(labels))
	for _, label := range labels {
		id, _ := strconv.ParseInt(label.ID, 10, 64)
		ids = append(ids, id)
	}
	return ids
}

func milestoneID(m tracker.Milestone) int64 {
	id, _ := strconv.ParseInt(m.ID, 10, 64)
	return id
}

// number is Gogs's issue identity: a per-repository number plus the
// global id.
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

// issueRemote binds per-issue operations. It carries the issue's state
// at fetch time, which seeds the event-synthesis fold.
type issueRemote struct {
	adapter *Adapter
	number  int
	state   string
}

func (r *issueRemote) issueURL() string {
	return fmt.Sprintf("%s/%d", r.adapter.issuesURL(), r.number)
}

func (r *issueRemote) commentsURL() string {
	return r.issueURL() + "/comments"
}

func (r *issueRemote) Comment(ctx context.Context, body string) (*tracker.Comment, error) {
	var payload commentPayload
	if err := r.adapter.client.Post(ctx, r.commentsURL(), map[string]string{"body": body}, &payload); err != nil {
		return nil, err
	}
	return r.newComment(payload)
}

// Comments returns the free-text comments, skipping the empty-body
// entries that record state changes.
func (r *issueRemote) Comments(ctx context.Context) ([]*tracker.Comment, error) {
	payload, err := r.fetchComments(ctx)
	if err != nil {
		return nil, err
	}
	var comments []*tracker.Comment
	for _, p := range payload {
		if p.Body == "" {
			continue
		}
		comment, err := r.newComment(p)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// Events reconstructs state-change events from the empty-body comment
// entries. The fold walks the entries newest first carrying the state
// the issue is currently known to be in: the most recent empty-body
// entry is the action that produced that state, and each step back
// alternates the implied prior state.
func (r *issueRemote) Events(ctx context.Context) ([]*tracker.Event, error) {
	payload, err := r.fetchComments(ctx)
	if err != nil {
		return nil, err
	}
	var toggles []commentPayload
	for _, p := range payload {
		if p.Body == "" {
			toggles = append(toggles, p)
		}
	}
	sort.SliceStable(toggles, func(i, j int) bool {
		return toggles[j].CreatedAt < toggles[i].CreatedAt
	})

	state := r.state
	var events []*tracker.Event
	for _, p := range toggles {
		text := "closed this"
		if state == tracker.StateOpen {
			text = "reopened this"
		}
		event, err := tracker.NewEvent(text, newUser(p.User), p.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
		if state == tracker.StateOpen {
			state = tracker.StateClosed
		} else {
			state = tracker.StateOpen
		}
	}
	return events, nil
}

func (r *issueRemote) fetchComments(ctx context.Context) ([]commentPayload, error) {
	var payload []commentPayload
	if err := r.adapter.client.Get(ctx, r.commentsURL(), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Edit applies field changes. Labels are not editable through the issue
// PATCH and go through the dedicated replace and clear endpoints; when a
// label sub-call fails after the PATCH committed, the error surfaces
// as-is and no rollback is attempted.
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
		data["assignee"] = req.Assignee.Value().Username
	case tracker.ChangeClear:
		data["assignee"] = ""
	}
	switch req.Milestone.Op() {
	case tracker.ChangeSet:
		data["milestone"] = milestoneID(req.Milestone.Value())
	case tracker.ChangeClear:
		data["milestone"] = 0
	}

	var patched *issuePayload
	if len(data) > 0 {
		var payload issuePayload
		if err := r.adapter.client.Patch(ctx, r.issueURL(), data, &payload); err != nil {
			return nil, err
		}
		patched = &payload
	}

	switch req.Labels.Op() {
	case tracker.ChangeSet:
		body := map[string]any{"labels": labelIDs(req.Labels.Value())}
		if err := r.adapter.client.Put(ctx, r.issueURL()+"/labels", body, nil); err != nil {
			return nil, err
		}
	case tracker.ChangeClear:
		if err := r.adapter.client.Delete(ctx, r.issueURL()+"/labels"); err != nil {
			return nil, err
		}
	default:
		if patched != nil {
			return r.adapter.newIssue(*patched)
		}
	}

	// Label sub-calls don't return the issue, so fetch the final shape.
	var payload issuePayload
	if err := r.adapter.client.Get(ctx, r.issueURL(), nil, &payload); err != nil {
		return nil, err
	}
	return r.adapter.newIssue(payload)
}

func (r *issueRemote) SetState(ctx context.Context, state string) (*tracker.Issue, error) {
	var payload issuePayload
	if err := r.adapter.client.Patch(ctx, r.issueURL(), map[string]string{"state": state}, &payload); err != nil {
		return nil, err
	}
	return r.adapter.newIssue(payload)
}

func (r *issueRemote) URL() string {
	return fmt.Sprintf("%s/issues/%d", r.adapter.htmlBase, r.number)
}

func (r *issueRemote) newComment(payload commentPayload) (*tracker.Comment, error) {
	return tracker.NewComment(
		strconv.FormatInt(payload.ID, 10),
		payload.Body,
		newUser(payload.User),
		payload.CreatedAt,
		r.URL(),
	)
}
