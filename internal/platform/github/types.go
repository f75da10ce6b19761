package github

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// RepoRef holds the parsed components of a GitHub clone URL.
type RepoRef struct {
	Host  string
	Owner string
	Name  string
}

// ParseRepoURL extracts host, owner and repository name from any remote URL
// git accepts: https, ssh:// and scp-style "git@host:owner/repo.git".
func ParseRepoURL(raw string) (RepoRef, error) {
	ep, err := transport.NewEndpoint(strings.TrimSpace(raw))
	if err != nil {
		return RepoRef{}, fmt.Errorf("invalid repository URL %q: %w", raw, err)
	}
	if ep.Host == "" {
		return RepoRef{}, fmt.Errorf("invalid repository URL %q: missing host", raw)
	}

	path := strings.TrimSuffix(strings.Trim(ep.Path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("invalid repository URL %q: expected <owner>/<repo>", raw)
	}
	return RepoRef{
		Host:  strings.ToLower(ep.Host),
		Owner: parts[0],
		Name:  parts[1],
	}, nil
}
