package syncer

import (
	"fmt"
	"strings"

	"github.com/alanmeadows/autosync/internal/platform"
)

const titlePrefix = "[Automated Sync]"

// ConfinedTo reports whether every conflicting path lies under prefix.
// An empty prefix or an empty set never qualifies.
func ConfinedTo(set ConflictSet, prefix string) bool {
	if prefix == "" || set.Empty() {
		return false
	}
	for _, p := range set.paths {
		if !strings.HasPrefix(p, prefix) {
			return false
		}
	}
	return true
}

// ResolutionBranchName returns the branch used to carry an auto-resolved
// merge of base into dest, e.g. "sync/main-into-release-1".
func ResolutionBranchName(prefix, base, dest string) string {
	return prefix + flatten(base) + "-into-" + flatten(dest)
}

func flatten(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

func syncTitle(p BranchPair) string {
	return fmt.Sprintf("%s Sync %s into %s", titlePrefix, p.Base, p.Destination)
}

func syncBody(p BranchPair) string {
	return fmt.Sprintf("This is an automated pull request to sync changes from `%s` into `%s`.", p.Base, p.Destination)
}

func resolutionTitle(p BranchPair) string {
	return fmt.Sprintf("%s Resolve %s into %s", titlePrefix, p.Base, p.Destination)
}

func resolutionBody(p BranchPair, set ConflictSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This is an automated pull request to sync changes from `%s` into `%s`.\n\n", p.Base, p.Destination)
	fmt.Fprintf(&b, "The following files conflicted and were resolved in favor of `%s`:\n\n", p.Destination)
	for _, path := range set.paths {
		fmt.Fprintf(&b, "- `%s`\n", path)
	}
	return b.String()
}

// MergeAction is what the lifecycle manager does with a request of a given readiness.
type MergeAction int

const (
	AttemptMerge MergeAction = iota
	// WarnSkip leaves the request for a later run.
	WarnSkip
	// LogFatal means the request needs a human: it conflicts with its base.
	LogFatal
)

func (a MergeAction) String() string {
	switch a {
	case AttemptMerge:
		return "attempt-merge"
	case WarnSkip:
		return "warn-skip"
	case LogFatal:
		return "log-fatal"
	default:
		return "unknown"
	}
}

// DecideMerge maps a request's merge readiness to the action taken.
func DecideMerge(r platform.MergeReadiness) MergeAction {
	switch r {
	case platform.ReadinessClean:
		return AttemptMerge
	case platform.ReadinessDirty:
		return LogFatal
	default:
		return WarnSkip
	}
}
