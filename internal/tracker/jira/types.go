package jira

// userPayload is a JIRA account. JIRA inlines the full account on every
// reference.
type userPayload struct {
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

// statusPayload is a JIRA workflow status with its category color.
type statusPayload struct {
	Name           string `json:"name"`
	StatusCategory struct {
		ColorName string `json:"colorName"`
	} `json:"statusCategory"`
}

// componentPayload is a project component, surfaced as a label.
type componentPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// versionPayload is a project version, surfaced as a milestone.
type versionPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ReleaseDate string `json:"releaseDate"`
}

// commentPayload is an issue comment.
type commentPayload struct {
	ID      string      `json:"id"`
	Body    string      `json:"body"`
	Author  userPayload `json:"author"`
	Created string      `json:"created"`
}

// changeItem is one field change inside a changelog history entry.
type changeItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// historyPayload is one changelog entry: an author, a timestamp, and the
// field changes made in that step.
type historyPayload struct {
	Author  userPayload  `json:"author"`
	Created string       `json:"created"`
	Items   []changeItem `json:"items"`
}

// changelogPayload is the expanded audit log of an issue.
type changelogPayload struct {
	Histories []historyPayload `json:"histories"`
}

// fieldsPayload is the requested subset of issue fields.
type fieldsPayload struct {
	Summary     string             `json:"summary"`
	Description string             `json:"description"`
	Status      statusPayload      `json:"status"`
	Reporter    userPayload        `json:"reporter"`
	Assignee    *userPayload       `json:"assignee"`
	Created     string             `json:"created"`
	Updated     string             `json:"updated"`
	Components  []componentPayload `json:"components"`
	FixVersions []versionPayload   `json:"fixVersions"`
	Comment     struct {
		Total    int              `json:"total"`
		Comments []commentPayload `json:"comments"`
	} `json:"comment"`
}

// issuePayload is a single issue, from either the issue endpoint or a
// search result.
type issuePayload struct {
	Key       string            `json:"key"`
	Self      string            `json:"self"`
	Fields    fieldsPayload     `json:"fields"`
	Changelog *changelogPayload `json:"changelog"`
}

// searchPayload is one page of JQL search results.
type searchPayload struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	Issues     []issuePayload `json:"issues"`
}
