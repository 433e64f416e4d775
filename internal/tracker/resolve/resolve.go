// Package resolve selects the backend adapter for a resolved
// configuration. It is the only package that knows every adapter, which
// keeps the adapters free of cross-imports.
package resolve

import (
	"strings"

	"github.com/gitforge/git-issue/internal/tracker"
	"github.com/gitforge/git-issue/internal/tracker/github"
	"github.com/gitforge/git-issue/internal/tracker/gitlab"
	"github.com/gitforge/git-issue/internal/tracker/gogs"
	"github.com/gitforge/git-issue/internal/tracker/jira"
)

// Open constructs the adapter named by cfg.Backend. An unknown name is
// a ConfigurationError listing the recognized backends.
func Open(cfg tracker.Config) (tracker.Service, error) {
	switch strings.ToLower(cfg.Backend) {
	case "github":
		return github.New(cfg), nil
	case "gitlab":
		return gitlab.New(cfg), nil
	case "gogs":
		return gogs.New(cfg), nil
	case "jira":
		return jira.New(cfg), nil
	case "":
		return nil, tracker.Configurationf(
			"issue service not set, specify using:\n" +
				"git config issue.service <service>\n" +
				`where <service> is one of "github", "gitlab", "gogs", "jira"`)
	default:
		return nil, tracker.Configurationf(
			`unknown issue service %q, expected one of "github", "gitlab", "gogs", "jira"`,
			cfg.Backend)
	}
}
