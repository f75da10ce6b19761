// Package vcs is the version control gateway: every operation autosync performs
// on its working clone goes through Gateway.
package vcs

//go:generate mockgen -destination=mocks/mock_vcs.go -package=mocks -source=vcs.go Gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Gateway is the set of working-copy operations the sync engine needs.
// Implementations operate on a single local clone.
type Gateway interface {
	// Dir returns the working tree path.
	Dir() string
	Fetch(ctx context.Context, remote string) error
	Checkout(ctx context.Context, ref string) error
	Pull(ctx context.Context, remote, branch string) error
	// ListRemoteRefs returns the branch names known under remote, without the remote prefix.
	ListRemoteRefs(ctx context.Context, remote string) ([]string, error)
	// DivergingCommits returns the hashes reachable from "from" but not from "excluding".
	DivergingCommits(ctx context.Context, from, excluding string) ([]string, error)
	// TrialMerge starts a non-committing merge of ref into HEAD. Content
	// conflicts are returned as paths, not as an error. The caller must abort.
	TrialMerge(ctx context.Context, ref string) ([]string, error)
	AbortMerge(ctx context.Context) error
	MergeInProgress(ctx context.Context) (bool, error)
	// MergeWithOursStrategy merges ref into HEAD, resolving conflicting hunks
	// in favor of HEAD, and commits.
	MergeWithOursStrategy(ctx context.Context, ref string) error
	CreateOrResetBranch(ctx context.Context, name string) error
	DeleteBranch(ctx context.Context, name string) error
	Push(ctx context.Context, remote, branch string, force bool) error
}

// ErrMergeFailed is returned by TrialMerge when git refuses the merge for a
// reason other than content conflicts.
var ErrMergeFailed = errors.New("merge failed without content conflicts")

// CommandError is a failed git invocation with its combined output.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git %s: %s: %v", strings.Join(e.Args, " "), strings.TrimSpace(e.Output), e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
