package gogs

// userPayload is a Gogs user. Gogs inlines the full account on every
// reference, including email.
type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
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
	Title       string `json:"title"`
	Description string `json:"description"`
	DueOn       string `json:"due_on"`
	State       string `json:"state"`
}

// issuePayload is a single issue from the repository issues endpoints.
type issuePayload struct {
	ID        int64             `json:"id"`
	Number    int               `json:"number"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	State     string            `json:"state"`
	User      userPayload       `json:"user"`
	Assignee  *userPayload      `json:"assignee"`
	Labels    []labelPayload    `json:"labels"`
	Milestone *milestonePayload `json:"milestone"`
	Comments  int               `json:"comments"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

// commentPayload is an issue comment. Gogs records state changes as
// comments with an empty body, which the adapter turns into events.
type commentPayload struct {
	ID        int64       `json:"id"`
	Body      string      `json:"body"`
	User      userPayload `json:"user"`
	CreatedAt string      `json:"created_at"`
}

// userSearchPayload wraps the user search results.
type userSearchPayload struct {
	Data []userPayload `json:"data"`
}
