// Package gitlab adapts the GitLab v4 REST API onto the tracker
// contracts. Notes serve as both comments and events split on the
// system flag, and system note bodies are rewritten into readable event
// descriptions using cached label and milestone lookups.
package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gitforge/git-issue/internal/tracker"
)

// Adapter implements tracker.Service for GitLab.
type Adapter struct {
	client     *Client
	apiURL     string
	projectURL string
	issuesURL  string
	usersURL   string

	// htmlBase is the project's web root for permalinks.
	htmlBase string

	// Issue payloads carry labels as bare names and system notes refer
	// to labels and milestones by id, so both are cached on first use.
	// Lookups degrade gracefully when a cache fetch failed.
	labelsByName    map[string]tracker.Label
	labelNames      map[int64]string
	milestoneTitles map[int]string
}

// New creates a GitLab adapter from resolved configuration.
func New(cfg tracker.Config) *Adapter {
	apiURL := fmt.Sprintf("%s://%s/api/v4", cfg.Protocol, cfg.Host)
	projectURL := apiURL + "/projects/" + url.PathEscape(cfg.Repo)
	return &Adapter{
		client:     NewClient(cfg.Token),
		apiURL:     apiURL,
		projectURL: projectURL,
		issuesURL:  projectURL + "/issues",
		usersURL:   apiURL + "/users",
		htmlBase:   fmt.Sprintf("%s://%s/%s", cfg.Protocol, cfg.Host, cfg.Repo),
	}
}

// Create opens a new issue.
func (a *Adapter) Create(ctx context.Context, req tracker.CreateRequest) (*tracker.Issue, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	data := map[string]any{"title": req.Title, "description": req.Body}
	if req.Assignee != nil {
		data["assignee_ids"] = []int64{userID(*req.Assignee)}
	}
	if len(req.Labels) > 0 {
		data["labels"] = joinLabels(req.Labels)
	}
	if req.Milestone != nil {
		data["milestone_id"] = milestoneID(*req.Milestone)
	}
	var payload issuePayload
	if err := a.client.Post(ctx, a.issuesURL, data, &payload); err != nil {
		return nil, err
	}
	return a.newIssue(payload)
}

// Issue fetches a single issue by its project-scoped number. Labels and
// milestones are prefetched so system notes can be decorated; a failed
// prefetch is tolerated.
func (a *Adapter) Issue(ctx context.Context, number string) (*tracker.Issue, error) {
	if _, err := strconv.Atoi(number); err != nil {
		return nil, tracker.Validationf("invalid issue number: %s", number)
	}
	a.fillLabelCache(ctx)
	a.fillMilestoneCache(ctx)
	var payload issuePayload
	if err := a.client.Get(ctx, a.issuesURL+"/"+number, nil, &payload); err != nil {
		return nil, err
	}
	return a.newIssue(payload)
}

// Issues lists issues in the given state, newest first. GitLab has no
// native "all" filter, so that bucket issues one listing per state.
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
	a.fillLabelCache(ctx)

	var issues []*tracker.Issue
	for _, s := range bucket {
		next := a.issuesURL
		query := url.Values{
			"state":    {encodeState(s)},
			"scope":    {"all"},
			"per_page": {"100"},
		}
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

// States returns GitLab's fixed state vocabulary.
func (a *Adapter) States(ctx context.Context) ([]tracker.State, error) {
	return []tracker.State{
		{Name: tracker.StateOpen, Color: tracker.ColorGreen},
		{Name: tracker.StateClosed, Color: tracker.ColorRed},
		{Name: tracker.StateAll, Color: tracker.ColorDefault},
	}, nil
}

// UserSearch finds users matching keyword.
func (a *Adapter) UserSearch(ctx context.Context, keyword string) ([]tracker.User, error) {
	var payload []userPayload
	query := url.Values{"search": {keyword}}
	if err := a.client.Get(ctx, a.usersURL, query, &payload); err != nil {
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

// Labels lists the project's labels.
func (a *Adapter) Labels(ctx context.Context) ([]tracker.Label, error) {
	var payload []labelPayload
	if err := a.client.Get(ctx, a.projectURL+"/labels", nil, &payload); err != nil {
		return nil, err
	}
	labels := make([]tracker.Label, 0, len(payload))
	for _, p := range payload {
		label, err := tracker.NewLabel(
			strconv.FormatInt(p.ID, 10), p.Name, strings.TrimPrefix(p.Color, "#"))
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// Milestones lists the project's milestones.
func (a *Adapter) Milestones(ctx context.Context) ([]tracker.Milestone, error) {
	var payload []milestonePayload
	if err := a.client.Get(ctx, a.projectURL+"/milestones", nil, &payload); err != nil {
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

// fillLabelCache loads the project labels for name and id lookups.
// Errors are swallowed: decoration degrades, listing still works.
func (a *Adapter) fillLabelCache(ctx context.Context) {
	if a.labelsByName != nil {
		return
	}
	var payload []labelPayload
	if err := a.client.Get(ctx, a.projectURL+"/labels", nil, &payload); err != nil {
		return
	}
	a.labelsByName = make(map[string]tracker.Label, len(payload))
	a.labelNames = make(map[int64]string, len(payload))
	for _, p := range payload {
		label, err := tracker.NewLabel(
			strconv.FormatInt(p.ID, 10), p.Name, strings.TrimPrefix(p.Color, "#"))
		if err != nil {
			continue
		}
		a.labelsByName[p.Name] = label
		a.labelNames[p.ID] = p.Name
	}
}

// fillMilestoneCache loads milestone titles for system note decoration.
func (a *Adapter) fillMilestoneCache(ctx context.Context) {
	if a.milestoneTitles != nil {
		return
	}
	var payload []milestonePayload
	if err := a.client.Get(ctx, a.projectURL+"/milestones", nil, &payload); err != nil {
		return
	}
	a.milestoneTitles = make(map[int]string, len(payload))
	for _, p := range payload {
		a.milestoneTitles[p.IID] = p.Title
	}
}

func (a *Adapter) newIssue(payload issuePayload) (*tracker.Issue, error) {
	labels := make([]tracker.Label, 0, len(payload.Labels))
	for _, name := range payload.Labels {
		labels = append(labels, a.labelByName(name))
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
		Number:      number{iid: payload.IID, id: payload.ID},
		Title:       payload.Title,
		Body:        payload.Description,
		State:       stateOf(payload.State),
		Author:      newUser(payload.Author),
		Created:     payload.CreatedAt,
		Updated:     payload.UpdatedAt,
		Assignee:    assignee,
		Labels:      labels,
		Milestones:  milestones,
		NumComments: payload.UserNotesCount,
	}
	remote := &issueRemote{
		adapter:  a,
		iid:      payload.IID,
		issueURL: fmt.Sprintf("%s/%d", a.issuesURL, payload.IID),
	}
	return tracker.NewIssue(spec, remote)
}

// labelByName resolves a bare label name from the issue payload against
// the label cache, falling back to a white placeholder.
func (a *Adapter) labelByName(name string) tracker.Label {
	if label, ok := a.labelsByName[name]; ok {
		return label
	}
	return tracker.Label{Name: name, Color: tracker.RGB{R: 0xff, G: 0xff, B: 0xff}}
}

func newUser(p userPayload) tracker.User {
	return tracker.User{
		ID:       strconv.FormatInt(p.ID, 10),
		Username: p.Username,
		Name:     p.Name,
	}
}

// newMilestone keys the entity by GitLab's global milestone id, which is
// what the issue endpoints address milestones by.
func newMilestone(p milestonePayload) (tracker.Milestone, error) {
	return tracker.NewMilestone(
		strconv.FormatInt(p.ID, 10), p.Title, p.Description, p.DueDate, p.State)
}

// stateOf normalizes GitLab's "opened" onto the shared state name.
func stateOf(name string) tracker.State {
	switch name {
	case "opened", tracker.StateOpen:
		return tracker.State{Name: tracker.StateOpen, Color: tracker.ColorGreen}
	case tracker.StateClosed:
		return tracker.State{Name: name, Color: tracker.ColorRed}
	default:
		return tracker.State{Name: name, Color: tracker.ColorDefault}
	}
}

// encodeState maps the shared state name onto GitLab's filter value.
func encodeState(state string) string {
	if state == tracker.StateOpen {
		return "opened"
	}
	return state
}

func joinLabels(labels []tracker.Label) string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.Name)
	}
	return strings.Join(names, ",")
}

func userID(u tracker.User) int64 {
	id, _ := strconv.ParseInt(u.ID, 10, 64)
	return id
}

func milestoneID(m tracker.Milestone) int64 {
	id, _ := strconv.ParseInt(m.ID, 10, 64)
	return id
}

// number is GitLab's issue identity: a global id plus the project-scoped
// iid humans refer to.
type number struct {
	iid int
	id  int64
}

func (n number) String() string {
	return "#" + strconv.Itoa(n.iid)
}

func (n number) API() string {
	return strconv.Itoa(n.iid)
}

// issueRemote binds per-issue operations to the notes and issue
// endpoints.
type issueRemote struct {
	adapter  *Adapter
	iid      int
	issueURL string
}

func (r *issueRemote) notesURL() string {
	return r.issueURL + "/notes"
}

func (r *issueRemote) Comment(ctx context.Context, body string) (*tracker.Comment, error) {
	var payload notePayload
	if err := r.adapter.client.Post(ctx, r.notesURL(), map[string]string{"body": body}, &payload); err != nil {
		return nil, err
	}
	return r.newComment(payload)
}

func (r *issueRemote) Comments(ctx context.Context) ([]*tracker.Comment, error) {
	notes, err := r.notes(ctx)
	if err != nil {
		return nil, err
	}
	var comments []*tracker.Comment
	for _, note := range notes {
		if note.System {
			continue
		}
		comment, err := r.newComment(note)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func (r *issueRemote) Events(ctx context.Context) ([]*tracker.Event, error) {
	notes, err := r.notes(ctx)
	if err != nil {
		return nil, err
	}
	var events []*tracker.Event
	for _, note := range notes {
		if !note.System {
			continue
		}
		event, err := tracker.NewEvent(
			r.adapter.describeNote(note.Body), newUser(note.Author), note.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *issueRemote) notes(ctx context.Context) ([]notePayload, error) {
	var payload []notePayload
	if err := r.adapter.client.Get(ctx, r.notesURL(), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *issueRemote) Edit(ctx context.Context, req *tracker.EditRequest) (*tracker.Issue, error) {
	data := map[string]any{}
	if req.Title.Op() == tracker.ChangeSet {
		data["title"] = req.Title.Value()
	}
	if req.Body.Op() == tracker.ChangeSet {
		data["description"] = req.Body.Value()
	}
	switch req.Assignee.Op() {
	case tracker.ChangeSet:
		data["assignee_ids"] = []int64{userID(req.Assignee.Value())}
	case tracker.ChangeClear:
		data["assignee_ids"] = []int64{}
	}
	switch req.Labels.Op() {
	case tracker.ChangeSet:
		data["labels"] = joinLabels(req.Labels.Value())
	case tracker.ChangeClear:
		data["labels"] = ""
	}
	switch req.Milestone.Op() {
	case tracker.ChangeSet:
		data["milestone_id"] = milestoneID(req.Milestone.Value())
	case tracker.ChangeClear:
		data["milestone_id"] = 0
	}
	var payload issuePayload
	if err := r.adapter.client.Put(ctx, r.issueURL, data, &payload); err != nil {
		return nil, err
	}
	return r.adapter.newIssue(payload)
}

// SetState drives GitLab's state machine through state_event.
func (r *issueRemote) SetState(ctx context.Context, state string) (*tracker.Issue, error) {
	event := "reopen"
	if state == tracker.StateClosed {
		event = "close"
	}
	var payload issuePayload
	if err := r.adapter.client.Put(ctx, r.issueURL, map[string]string{"state_event": event}, &payload); err != nil {
		return nil, err
	}
	return r.adapter.newIssue(payload)
}

func (r *issueRemote) URL() string {
	return fmt.Sprintf("%s/issues/%d", r.adapter.htmlBase, r.iid)
}

func (r *issueRemote) newComment(payload notePayload) (*tracker.Comment, error) {
	permalink := fmt.Sprintf("%s/issues/%d#note_%d", r.adapter.htmlBase, r.iid, payload.ID)
	return tracker.NewComment(
		strconv.FormatInt(payload.ID, 10),
		payload.Body,
		newUser(payload.Author),
		payload.CreatedAt,
		permalink,
	)
}

var (
	milestoneRef = regexp.MustCompile(`%\d+`)
	labelRef     = regexp.MustCompile(`~\d+`)
)

// describeNote rewrites a system note body into a readable event
// description: state changes collapse to a single word, title-change
// diff markers are stripped, and label and milestone id references are
// replaced with their names where the caches resolve them.
func (a *Adapter) describeNote(body string) string {
	switch {
	case strings.Contains(body, "closed"):
		body = "closed"
	case strings.Contains(body, "reopened"):
		body = "reopened"
	}
	if strings.Contains(body, "changed title") {
		for _, marker := range []string{"{+", "+}", "{-", "-}", "**"} {
			body = strings.ReplaceAll(body, marker, "")
		}
	}
	if strings.Contains(body, "milestone") {
		body = milestoneRef.ReplaceAllStringFunc(body, func(ref string) string {
			iid, err := strconv.Atoi(ref[1:])
			if err != nil {
				return ref
			}
			if title, ok := a.milestoneTitles[iid]; ok {
				return title
			}
			return ref
		})
	}
	if strings.Contains(body, "label") {
		body = labelRef.ReplaceAllStringFunc(body, func(ref string) string {
			id, err := strconv.ParseInt(ref[1:], 10, 64)
			if err != nil {
				return ref
			}
			if name, ok := a.labelNames[id]; ok {
				return name
			}
			return ref
		})
	}
	first, size := utf8.DecodeRuneInString(body)
	if first == utf8.RuneError {
		return body
	}
	return string(unicode.ToUpper(first)) + body[size:]
}
