package config

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitforge/git-issue/internal/tracker"
)

func fakeGit(values map[string]string) GitConfig {
	return func(ctx context.Context, key string) (string, error) {
		if value, ok := values[key]; ok {
			return value, nil
		}
		return "", tracker.Configurationf("%s is not set", key)
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want RemoteURL
	}{
		{
			"https with .git",
			"https://github.com/octocat/hello.git",
			RemoteURL{Protocol: "https", Host: "github.com", Owner: "octocat", Name: "hello"},
		},
		{
			"http without suffix",
			"http://gogs.example.com/owner/repo",
			RemoteURL{Protocol: "http", Host: "gogs.example.com", Owner: "owner", Name: "repo"},
		},
		{
			"ssh scheme",
			"ssh://git@gitlab.example.com/group/project.git",
			RemoteURL{Protocol: "https", Host: "gitlab.example.com", Owner: "group", Name: "project"},
		},
		{
			"scp shorthand",
			"git@github.com:octocat/hello.git",
			RemoteURL{Protocol: "https", Host: "github.com", Owner: "octocat", Name: "hello"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRemoteURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Owner+"/"+tt.want.Name, got.Repo())
		})
	}
}

func TestParseRemoteURLRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not a url", "https://github.com/"} {
		_, err := ParseRemoteURL(raw)
		assert.Error(t, err, raw)
		assert.True(t, tracker.IsConfiguration(err))
	}
}

func TestResolveFromGitConfig(t *testing.T) {
	resolver := &Resolver{
		git: fakeGit(map[string]string{
			"issue.service":      "GitHub",
			"remote.origin.url":  "git@github.com:octocat/hello.git",
			"issue.github.token": "octocat:t0ken",
		}),
	}
	cfg, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.Backend)
	assert.Equal(t, "https", cfg.Protocol)
	assert.Equal(t, "github.com", cfg.Host)
	assert.Equal(t, "octocat/hello", cfg.Repo)
	assert.Equal(t, "octocat:t0ken", cfg.Token)
}

func TestResolveServiceURLOverridesRemote(t *testing.T) {
	resolver := &Resolver{
		git: fakeGit(map[string]string{
			"issue.service":     "gogs",
			"issue.gogs.url":    "https://try.gogs.io/owner/repo.git",
			"remote.origin.url": "git@github.com:other/elsewhere.git",
			"issue.gogs.token":  "abc123",
		}),
	}
	cfg, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "try.gogs.io", cfg.Host)
	assert.Equal(t, "https://try.gogs.io/owner/repo.git", cfg.BaseURL)
	// Repo still derives from the remote, not from the service URL.
	assert.Equal(t, "other/elsewhere", cfg.Repo)
}

func TestResolveCustomRemoteAndPlainHTTP(t *testing.T) {
	resolver := &Resolver{
		git: fakeGit(map[string]string{
			"issue.service":       "gitlab",
			"issue.gitlab.remote": "upstream",
			"issue.gitlab.https":  "false",
			"remote.upstream.url": "git@gitlab.example.com:group/project.git",
			"issue.gitlab.token":  "glpat",
		}),
	}
	cfg, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Protocol)
	assert.Equal(t, "http://gitlab.example.com", cfg.BaseURL)
	assert.Equal(t, "group/project", cfg.Repo)
}

func TestResolveJIRARequiresProjectKey(t *testing.T) {
	git := map[string]string{
		"issue.service":    "jira",
		"issue.jira.url":   "https://jira.example.com",
		"issue.jira.token": "alice:hunter2",
	}
	resolver := &Resolver{git: fakeGit(git)}
	_, err := resolver.Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, tracker.IsConfiguration(err))
	assert.Contains(t, err.Error(), "issue.jira.key")

	git["issue.jira.key"] = "PROJ"
	cfg, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PROJ", cfg.Project)
	assert.Equal(t, "https://jira.example.com", cfg.BaseURL)
}

func TestResolveMissingService(t *testing.T) {
	resolver := &Resolver{git: fakeGit(nil)}
	_, err := resolver.Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, tracker.IsConfiguration(err))
	assert.Contains(t, err.Error(), "git config issue.service")
}

func TestResolveTokenFallsBackToKeyring(t *testing.T) {
	resolver := &Resolver{
		git: fakeGit(map[string]string{
			"issue.service":     "github",
			"remote.origin.url": "https://github.com/octocat/hello.git",
		}),
		token: func(backend string) (string, error) {
			assert.Equal(t, "github", backend)
			return "from-keyring", nil
		},
	}
	cfg, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", cfg.Token)
}

func TestResolveMissingTokenEverywhere(t *testing.T) {
	resolver := &Resolver{
		git: fakeGit(map[string]string{
			"issue.service":     "github",
			"remote.origin.url": "https://github.com/octocat/hello.git",
		}),
	}
	_, err := resolver.Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue.github.token")
}

func TestResolveFileOverrideWins(t *testing.T) {
	v := viper.New()
	v.Set("service", "gitlab")
	v.Set("gitlab.token", "file-token")
	resolver := &Resolver{
		git: fakeGit(map[string]string{
			"issue.service":     "github",
			"remote.origin.url": "https://gitlab.example.com/group/project.git",
		}),
		file: v,
	}
	cfg, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gitlab", cfg.Backend)
	assert.Equal(t, "file-token", cfg.Token)
}
