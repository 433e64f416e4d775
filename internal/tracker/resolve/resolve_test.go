package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitforge/git-issue/internal/tracker"
)

func TestServiceSelectsByBackendName(t *testing.T) {
	for _, backend := range []string{"github", "GitHub", "gitlab", "Gogs", "JIRA"} {
		t.Run(backend, func(t *testing.T) {
			svc, err := Open(tracker.Config{
				Backend:  backend,
				Protocol: "https",
				Host:     "example.com",
				BaseURL:  "https://example.com",
				Repo:     "owner/repo",
				Project:  "PROJ",
				Token:    "user:token",
			})
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestServiceRejectsUnknownBackend(t *testing.T) {
	_, err := Open(tracker.Config{Backend: "bitbucket"})
	require.Error(t, err)
	assert.True(t, tracker.IsConfiguration(err))
	assert.Contains(t, err.Error(), "bitbucket")
}

func TestServiceRejectsMissingBackend(t *testing.T) {
	_, err := Open(tracker.Config{})
	require.Error(t, err)
	assert.True(t, tracker.IsConfiguration(err))
	assert.Contains(t, err.Error(), "issue.service")
}
