package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Config is the top-level autosync configuration. It is loaded once per run
// and treated as immutable afterwards.
type Config struct {
	// RepoURL is the clone URL of the repository to keep in sync (HTTPS or SSH).
	RepoURL string `json:"repo_url" yaml:"repo_url"`
	// Branches lists the base branches and the destinations each one feeds.
	Branches []BranchGroup `json:"branches" yaml:"branches"`
	// ConflictBranchPrefix prefixes the names of generated resolution branches.
	ConflictBranchPrefix string `json:"conflict_branch_prefix" yaml:"conflict_branch_prefix"`
	// ProtectedPrefix is the path prefix under which conflicts may be
	// auto-resolved in favor of the destination. Empty disables the policy.
	ProtectedPrefix string `json:"protected_prefix" yaml:"protected_prefix"`
	// WorkDir holds the reusable local clone. Relative paths are resolved
	// against the directory of the config file.
	WorkDir string `json:"work_dir" yaml:"work_dir"`
	// Remote is the name of the git remote the clone tracks.
	Remote string `json:"remote" yaml:"remote"`
	// GitHubToken authenticates against the hosting platform. Usually set
	// through GITHUB_TOKEN rather than the file.
	GitHubToken string `json:"github_token,omitempty" yaml:"github_token,omitempty"`
}

// BranchGroup is one base branch and the ordered destinations it is synced into.
type BranchGroup struct {
	Base         string   `json:"base" yaml:"base"`
	Destinations []string `json:"destinations" yaml:"destinations"`
}

// DefaultConfig returns a Config with the defaults applied before any file is merged in.
func DefaultConfig() Config {
	return Config{
		ConflictBranchPrefix: "sync/",
		ProtectedPrefix:      "docs/",
		WorkDir:              ".tmp",
		Remote:               "origin",
	}
}

// RepoName returns the repository name derived from RepoURL, e.g.
// "git@github.com:org/widgets.git" -> "widgets".
func (c *Config) RepoName() string {
	u := strings.TrimSuffix(strings.TrimSpace(c.RepoURL), "/")
	u = strings.TrimSuffix(u, ".git")
	if i := strings.LastIndexAny(u, ":/"); i >= 0 {
		u = u[i+1:]
	}
	return u
}

// CloneDir is the directory the repository is cloned into.
func (c *Config) CloneDir() string {
	return filepath.Join(c.WorkDir, c.RepoName())
}

// Validate checks the structural rules a config must satisfy before any sync work starts.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.RepoURL) == "" {
		errs = append(errs, errors.New("repo_url is required"))
	} else if c.RepoName() == "" {
		errs = append(errs, fmt.Errorf("cannot derive a repository name from repo_url %q", c.RepoURL))
	}
	if len(c.Branches) == 0 {
		errs = append(errs, errors.New("branches must list at least one base branch"))
	}
	for i, g := range c.Branches {
		if strings.TrimSpace(g.Base) == "" {
			errs = append(errs, fmt.Errorf("branches[%d]: base is required", i))
		}
		if len(g.Destinations) == 0 {
			errs = append(errs, fmt.Errorf("branches[%d]: at least one destination is required", i))
		}
		for j, d := range g.Destinations {
			switch {
			case strings.TrimSpace(d) == "":
				errs = append(errs, fmt.Errorf("branches[%d].destinations[%d]: empty branch name", i, j))
			case d == g.Base:
				errs = append(errs, fmt.Errorf("branches[%d].destinations[%d]: %q cannot be synced into itself", i, j, d))
			}
		}
	}
	if strings.TrimSpace(c.Remote) == "" {
		errs = append(errs, errors.New("remote must not be empty"))
	}
	return errors.Join(errs...)
}
