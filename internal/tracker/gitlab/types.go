package gitlab

// userPayload is a GitLab user reference. GitLab inlines name on every
// reference, so no secondary fetch is needed.
type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// labelPayload is a project label from the labels endpoint. Issue
// payloads carry labels as bare name strings instead.
type labelPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// milestonePayload is a project milestone. ID is the global identity the
// API addresses; IID is the project-scoped number system notes refer to.
type milestonePayload struct {
	ID          int64  `json:"id"`
	IID         int    `json:"iid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	State       string `json:"state"`
}

// issuePayload is a single issue from the project issues endpoints.
type issuePayload struct {
	ID             int64             `json:"id"`
	IID            int               `json:"iid"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	State          string            `json:"state"`
	Author         userPayload       `json:"author"`
	Assignee       *userPayload      `json:"assignee"`
	Labels         []string          `json:"labels"`
	Milestone      *milestonePayload `json:"milestone"`
	UserNotesCount int               `json:"user_notes_count"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

// notePayload is a single note. Notes serve double duty: system notes
// are events, the rest are comments.
type notePayload struct {
	ID        int64       `json:"id"`
	Body      string      `json:"body"`
	Author    userPayload `json:"author"`
	System    bool        `json:"system"`
	CreatedAt string      `json:"created_at"`
}
