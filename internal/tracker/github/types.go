package github

// userPayload is a GitHub user reference. List payloads carry only the
// login and detail URL; name and email require a secondary fetch.
type userPayload struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	URL   string `json:"url"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// labelPayload is a repository label.
type labelPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// milestonePayload is a repository milestone.
type milestonePayload struct {
	ID          int64  `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueOn       string `json:"due_on"`
	State       string `json:"state"`
}

// issuePayload is a single issue from the issues endpoints.
type issuePayload struct {
	ID          int64             `json:"id"`
	Number      int               `json:"number"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	State       string            `json:"state"`
	User        userPayload       `json:"user"`
	Assignee    *userPayload      `json:"assignee"`
	Labels      []labelPayload    `json:"labels"`
	Milestone   *milestonePayload `json:"milestone"`
	Comments    int               `json:"comments"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
	URL         string            `json:"url"`
	CommentsURL string            `json:"comments_url"`
	EventsURL   string            `json:"events_url"`
	HTMLURL     string            `json:"html_url"`
}

// commentPayload is an issue comment.
type commentPayload struct {
	ID        int64       `json:"id"`
	Body      string      `json:"body"`
	User      userPayload `json:"user"`
	CreatedAt string      `json:"created_at"`
	HTMLURL   string      `json:"html_url"`
}

// renamePayload is the before/after pair of a title change event.
type renamePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// projectPayload is the project board reference on project events.
type projectPayload struct {
	Name string `json:"name"`
}

// eventPayload is a single entry from the issue events endpoint.
type eventPayload struct {
	Event      string            `json:"event"`
	Actor      userPayload       `json:"actor"`
	CommitID   string            `json:"commit_id"`
	Assignee   *userPayload      `json:"assignee"`
	Assigner   *userPayload      `json:"assigner"`
	Label      *labelPayload     `json:"label"`
	Milestone  *milestonePayload `json:"milestone"`
	Rename     *renamePayload    `json:"rename"`
	Project    *projectPayload   `json:"project"`
	LockReason string            `json:"lock_reason"`
	CreatedAt  string            `json:"created_at"`
}

// userSearchPayload wraps the user search results.
type userSearchPayload struct {
	Items []userPayload `json:"items"`
}
