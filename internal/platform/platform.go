// Package platform defines the hosting platform gateway: the review request
// operations autosync needs, independent of any particular forge.
package platform

//go:generate mockgen -destination=mocks/mock_platform.go -package=mocks -source=platform.go Gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Gateway is the interface for review request lifecycle backends.
// Implementations are bound to one repository.
type Gateway interface {
	// Name returns the short identifier for this backend (e.g., "github").
	Name() string

	// DefaultBranch returns the repository's default branch. Also serves as
	// the credential check at startup.
	DefaultBranch(ctx context.Context) (string, error)

	// FindOpenRequest returns the open request from head into base, or nil when there is none.
	FindOpenRequest(ctx context.Context, head, base string) (*ReviewRequest, error)

	// CreateRequest opens a new review request.
	CreateRequest(ctx context.Context, req NewRequest) (*ReviewRequest, error)

	// Refresh re-reads the request, including its merge readiness.
	Refresh(ctx context.Context, req *ReviewRequest) (*ReviewRequest, error)

	// Merge asks the platform to merge the request.
	Merge(ctx context.Context, req *ReviewRequest) (*MergeResult, error)

	// CloseRequest closes the request without merging.
	CloseRequest(ctx context.Context, req *ReviewRequest) error
}

// ReviewRequest is a platform-side proposal to merge HeadBranch into BaseBranch.
type ReviewRequest struct {
	Number     int
	HeadBranch string
	BaseBranch string
	Title      string
	Body       string
	URL        string
	IsOpen     bool
	// Readiness is only meaningful after Refresh.
	Readiness MergeReadiness
}

// NewRequest holds the fields needed to open a review request.
type NewRequest struct {
	Head  string
	Base  string
	Title string
	Body  string
}

// MergeResult is the platform's answer to a merge attempt.
type MergeResult struct {
	Merged  bool
	SHA     string
	Message string
}

// MergeReadiness is the platform's verdict on whether a request can be merged now.
type MergeReadiness string

const (
	ReadinessClean    MergeReadiness = "clean"
	ReadinessDirty    MergeReadiness = "dirty"
	ReadinessBlocked  MergeReadiness = "blocked"
	ReadinessDraft    MergeReadiness = "draft"
	ReadinessUnstable MergeReadiness = "unstable"
	ReadinessUnknown  MergeReadiness = "unknown"
)

// ParseReadiness maps a platform status string onto MergeReadiness.
// Values outside the known set (e.g. "behind", "has_hooks") become ReadinessUnknown.
func ParseReadiness(s string) MergeReadiness {
	switch r := MergeReadiness(strings.ToLower(strings.TrimSpace(s))); r {
	case ReadinessClean, ReadinessDirty, ReadinessBlocked, ReadinessDraft, ReadinessUnstable:
		return r
	default:
		return ReadinessUnknown
	}
}

// FailureReason classifies platform failures the sync engine reacts to.
type FailureReason int

const (
	ReasonUnclassified FailureReason = iota
	// ReasonAlreadyExists: a request for the same head and base is already open.
	ReasonAlreadyExists
	// ReasonNoCommitsBetween: head has nothing base lacks.
	ReasonNoCommitsBetween
	// ReasonMergeNotAllowed: the platform refused the merge (protection rules, permissions).
	ReasonMergeNotAllowed
	ReasonNotFound
)

func (r FailureReason) String() string {
	switch r {
	case ReasonAlreadyExists:
		return "already exists"
	case ReasonNoCommitsBetween:
		return "no commits between"
	case ReasonMergeNotAllowed:
		return "merge not allowed"
	case ReasonNotFound:
		return "not found"
	default:
		return "unclassified"
	}
}

// Error is a classified platform failure.
type Error struct {
	Reason FailureReason
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ReasonOf returns the FailureReason carried by err, or ReasonUnclassified.
func ReasonOf(err error) FailureReason {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ReasonUnclassified
}
