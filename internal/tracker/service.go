// Package tracker defines the backend-agnostic issue tracker contracts:
// the Service interface every backend adapter implements, the entity
// shapes adapters must produce, the edit-change model, the color palette,
// and the error taxonomy. It performs no I/O itself.
package tracker

import "context"

// Config carries the already-resolved settings an adapter needs. It is
// produced by the configuration layer; the tracker core never shells out
// or inspects the environment.
type Config struct {
	// Backend is the service name ("github", "gitlab", "gogs", "jira").
	Backend string

	// Protocol is "https" or "http".
	Protocol string

	// Host is the service host, e.g. "github.com" or "gitlab.example.com".
	Host string

	// BaseURL is the full service root for backends addressed by URL
	// rather than host (Gogs, JIRA), e.g. "https://try.gogs.io".
	BaseURL string

	// Token is the API credential. GitHub and JIRA expect "user:token"
	// for basic authentication; GitLab and Gogs a bare token.
	Token string

	// Repo is the "owner/name" repository identity.
	Repo string

	// Project is the JIRA project key.
	Project string
}

// CreateRequest holds the fields for a new issue.
type CreateRequest struct {
	Title     string
	Body      string
	Assignee  *User
	Labels    []Label
	Milestone *Milestone
}

// Validate checks the locally checkable create invariants.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return Validationf("aborted create due to empty title")
	}
	return nil
}

// Service is the contract every backend adapter implements. The command
// line layer interacts with backends exclusively through this interface.
type Service interface {
	// Create opens a new issue and returns it.
	Create(ctx context.Context, req CreateRequest) (*Issue, error)

	// Issue fetches a single issue by its backend number or key.
	Issue(ctx context.Context, number string) (*Issue, error)

	// Issues lists issues in the given state. Recognized state names are
	// backend-specific; an unrecognized state is a ValidationError raised
	// before any network call.
	Issues(ctx context.Context, state string) ([]*Issue, error)

	// States returns the issue states the backend recognizes.
	States(ctx context.Context) ([]State, error)

	// UserSearch finds users matching keyword. Zero matches is a
	// not-found BackendError.
	UserSearch(ctx context.Context, keyword string) ([]User, error)

	// Labels lists the repository's labels.
	Labels(ctx context.Context) ([]Label, error)

	// Milestones lists the repository's milestones.
	Milestones(ctx context.Context) ([]Milestone, error)
}

// Number is a backend-specific issue identity. String renders the human
// facing form such as "#12" or "PROJ-7"; API renders the value used when
// addressing the backend API.
type Number interface {
	String() string
	API() string
}

// Common state names shared by all backends. JIRA additionally accepts
// its native status names.
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateAll    = "all"
)

// State is an issue state name paired with its display color. The color
// is informational only and derived by the adapter.
type State struct {
	Name  string
	Color PaletteColor
}

func (s State) String() string {
	return s.Name
}
