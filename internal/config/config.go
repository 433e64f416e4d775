// Package config resolves the tracker configuration for the current
// repository. Values come from, in order of precedence, an optional
// ~/.config/git-issue/config.yaml file, git config issue.* settings,
// and the Git remote URL; API tokens additionally fall back to the
// system keyring. The tracker core only ever sees the resolved result.
package config

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/gitforge/git-issue/internal/tracker"
)

// GitConfig reads a single git configuration value, returning an error
// when the key is unset.
type GitConfig func(ctx context.Context, key string) (string, error)

func gitConfig(ctx context.Context, key string) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "config", "--get", key).Output()
	if err != nil {
		return "", tracker.Configurationf("%s is not set", key)
	}
	return strings.TrimSpace(string(out)), nil
}

// DefaultPath returns the config file path,
// ~/.config/git-issue/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "git-issue", "config.yaml")
}

// Resolver combines the configuration inputs. The zero value is not
// usable; construct with NewResolver.
type Resolver struct {
	git   GitConfig
	file  *viper.Viper
	token func(backend string) (string, error)
}

// NewResolver creates a resolver reading the default config file, git
// config, and the system keyring.
func NewResolver() *Resolver {
	v := viper.New()
	v.SetConfigFile(DefaultPath())
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		// The override file is optional.
		v = viper.New()
	}
	return &Resolver{
		git:   gitConfig,
		file:  v,
		token: keyringToken,
	}
}

// lookup returns the file override for fileKey if present, otherwise the
// git config value for gitKey.
func (r *Resolver) lookup(ctx context.Context, fileKey, gitKey string) (string, error) {
	if r.file != nil && r.file.IsSet(fileKey) {
		return r.file.GetString(fileKey), nil
	}
	return r.git(ctx, gitKey)
}

// Resolve produces the tracker configuration for the current repository.
func (r *Resolver) Resolve(ctx context.Context) (tracker.Config, error) {
	backend, err := r.lookup(ctx, "service", "issue.service")
	if err != nil {
		return tracker.Config{}, tracker.Configurationf(
			"issue service not set, specify using:\ngit config issue.service <service>")
	}
	backend = strings.ToLower(backend)

	cfg := tracker.Config{Backend: backend}

	serviceURL, _ := r.lookup(ctx, backend+".url", "issue."+backend+".url")
	remoteURL, remoteErr := r.remoteURL(ctx, backend)

	switch {
	case serviceURL != "":
		parsed, err := ParseRemoteURL(serviceURL)
		if err != nil {
			return tracker.Config{}, err
		}
		cfg.Protocol = parsed.Protocol
		cfg.Host = parsed.Host
		cfg.BaseURL = strings.TrimSuffix(serviceURL, "/")
	case remoteErr == nil:
		cfg.Protocol = remoteURL.Protocol
		cfg.Host = remoteURL.Host
		if r.plainHTTP(ctx, backend) {
			cfg.Protocol = "http"
		}
		cfg.BaseURL = cfg.Protocol + "://" + cfg.Host
	default:
		return tracker.Config{}, tracker.Configurationf(
			"failed to determine service HTTP URL, specify using:\ngit config issue.%s.url <url>",
			backend)
	}

	if remoteErr == nil {
		cfg.Repo = remoteURL.Repo()
	} else if backend != "jira" {
		return tracker.Config{}, tracker.Configurationf(
			"failed to determine repository from remote, specify using:\ngit config issue.%s.remote <remote>",
			backend)
	}

	if backend == "jira" {
		project, err := r.lookup(ctx, "jira.project", "issue.jira.key")
		if err != nil {
			return tracker.Config{}, tracker.Configurationf(
				"JIRA project key not set, specify using:\ngit config issue.jira.key <key>")
		}
		cfg.Project = project
	}

	token, err := r.resolveToken(ctx, backend)
	if err != nil {
		return tracker.Config{}, err
	}
	cfg.Token = token

	return cfg, nil
}

// remoteURL parses the URL of the configured Git remote, which defaults
// to origin.
func (r *Resolver) remoteURL(ctx context.Context, backend string) (RemoteURL, error) {
	remote, err := r.lookup(ctx, backend+".remote", "issue."+backend+".remote")
	if err != nil || remote == "" {
		remote = "origin"
	}
	raw, err := r.git(ctx, "remote."+remote+".url")
	if err != nil {
		return RemoteURL{}, err
	}
	return ParseRemoteURL(raw)
}

// plainHTTP reports whether issue.<backend>.https disables TLS.
func (r *Resolver) plainHTTP(ctx context.Context, backend string) bool {
	value, err := r.lookup(ctx, backend+".https", "issue."+backend+".https")
	if err != nil {
		return false
	}
	return value == "0" || value == "false"
}

// resolveToken finds the API token: config file, then git config, then
// the system keyring.
func (r *Resolver) resolveToken(ctx context.Context, backend string) (string, error) {
	if token, err := r.lookup(ctx, backend+".token", "issue."+backend+".token"); err == nil && token != "" {
		return token, nil
	}
	if r.token != nil {
		if token, err := r.token(backend); err == nil && token != "" {
			return token, nil
		}
	}
	return "", tracker.Configurationf(
		"failed to get %s API token, specify using:\ngit config issue.%s.token <token>",
		backend, backend)
}
