package config

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gitforge/git-issue/internal/tracker"
)

// RemoteURL is the decomposed form of a Git remote URL.
type RemoteURL struct {
	Protocol string
	Host     string
	Owner    string
	Name     string
}

// Repo returns the "owner/name" repository identity.
func (r RemoteURL) Repo() string {
	return r.Owner + "/" + r.Name
}

// scpLike matches the git@host:owner/name shorthand that has no scheme.
var scpLike = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):([\w.-]+)/([\w.-]+?)(?:\.git)?$`)

// ParseRemoteURL decomposes a Git remote URL in either scheme form
// (https://host/owner/name.git, ssh://git@host/owner/name.git) or scp
// shorthand (git@host:owner/name.git). SSH and scp forms resolve to the
// https protocol, since the issue APIs are HTTP.
func ParseRemoteURL(raw string) (RemoteURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RemoteURL{}, tracker.Configurationf("remote url is empty")
	}

	if !strings.Contains(raw, "://") {
		match := scpLike.FindStringSubmatch(raw)
		if match == nil {
			return RemoteURL{}, tracker.Configurationf("unrecognized remote url: %s", raw)
		}
		return RemoteURL{
			Protocol: "https",
			Host:     match[1],
			Owner:    match[2],
			Name:     match[3],
		}, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return RemoteURL{}, tracker.Configurationf("unrecognized remote url: %s", raw)
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RemoteURL{}, tracker.Configurationf(
			"remote url has no owner/name path: %s", raw)
	}
	protocol := parsed.Scheme
	if protocol != "http" && protocol != "https" {
		protocol = "https"
	}
	return RemoteURL{
		Protocol: protocol,
		Host:     parsed.Hostname(),
		Owner:    parts[len(parts)-2],
		Name:     strings.TrimSuffix(parts[len(parts)-1], ".git"),
	}, nil
}
