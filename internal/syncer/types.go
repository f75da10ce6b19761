// Package syncer decides, for each configured branch pair, whether the
// destination needs the base's changes and drives the review request that
// delivers them.
package syncer

import (
	"slices"
	"time"

	"github.com/alanmeadows/autosync/internal/config"
)

// BranchPair is one directed sync relationship: Base is merged into Destination.
type BranchPair struct {
	Base        string
	Destination string
}

func (p BranchPair) String() string {
	return p.Base + " -> " + p.Destination
}

// ExpandPairs flattens branch groups into pairs, preserving configuration order.
func ExpandPairs(groups []config.BranchGroup) []BranchPair {
	var pairs []BranchPair
	for _, g := range groups {
		for _, d := range g.Destinations {
			pairs = append(pairs, BranchPair{Base: g.Base, Destination: d})
		}
	}
	return pairs
}

// ConflictSet is the sorted, de-duplicated set of paths a merge could not reconcile.
type ConflictSet struct {
	paths []string
}

// NewConflictSet builds a ConflictSet from paths in any order.
func NewConflictSet(paths []string) ConflictSet {
	p := slices.Clone(paths)
	slices.Sort(p)
	return ConflictSet{paths: slices.Compact(p)}
}

// Paths returns the conflicting paths in sorted order.
func (c ConflictSet) Paths() []string { return slices.Clone(c.paths) }

func (c ConflictSet) Empty() bool { return len(c.paths) == 0 }

func (c ConflictSet) Len() int { return len(c.paths) }

// TrialMergeResult is the outcome of a trial merge. A conflict is a value
// here, never an error.
type TrialMergeResult struct {
	Conflicts ConflictSet
}

func (r TrialMergeResult) HasConflict() bool { return !r.Conflicts.Empty() }

// OutcomeKind is what happened to a pair during a run.
type OutcomeKind int

const (
	UpToDate OutcomeKind = iota
	RequestOpened
	RequestUpdated
	ConflictBlocked
	ConflictAutoResolved
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case UpToDate:
		return "up-to-date"
	case RequestOpened:
		return "request-opened"
	case RequestUpdated:
		return "request-updated"
	case ConflictBlocked:
		return "conflict-blocked"
	case ConflictAutoResolved:
		return "conflict-auto-resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// AllOutcomeKinds lists every kind in display order.
var AllOutcomeKinds = []OutcomeKind{UpToDate, RequestOpened, RequestUpdated, ConflictBlocked, ConflictAutoResolved, Failed}

// Outcome is the result of processing one pair.
type Outcome struct {
	Kind             OutcomeKind
	Pair             BranchPair
	Conflicts        []string
	ResolutionBranch string
	RequestNumber    int
	RequestURL       string
	Reason           string
	// DryRun marks outcomes that describe what would have happened.
	DryRun bool
}

// Options are the per-run toggles.
type Options struct {
	DryRun        bool
	MergeRequests bool
	AutoResolve   bool
}

// Report summarizes one run.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Outcomes []Outcome
}

// Count returns the number of outcomes of the given kind.
func (r *Report) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}
