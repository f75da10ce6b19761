package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alanmeadows/autosync/internal/vcs"
)

// Detector runs trial merges on the current branch.
type Detector struct {
	repo   vcs.Gateway
	logger *slog.Logger
}

func NewDetector(repo vcs.Gateway, logger *slog.Logger) *Detector {
	return &Detector{repo: repo, logger: logger}
}

// Detect trial-merges ref into HEAD and reports conflicting paths. The
// working tree is returned to its pre-merge state on every path; a failed
// abort is an error even when conflicts were found.
func (d *Detector) Detect(ctx context.Context, ref string) (TrialMergeResult, error) {
	paths, mergeErr := d.repo.TrialMerge(ctx, ref)
	abortErr := d.abort(ctx)

	if mergeErr != nil {
		return TrialMergeResult{}, errors.Join(fmt.Errorf("trial merge of %s: %w", ref, mergeErr), abortErr)
	}
	if abortErr != nil {
		return TrialMergeResult{}, fmt.Errorf("aborting trial merge of %s: %w", ref, abortErr)
	}

	res := TrialMergeResult{Conflicts: NewConflictSet(paths)}
	d.logger.Debug("trial merge finished", "ref", ref, "conflicts", res.Conflicts.Len())
	return res, nil
}

func (d *Detector) abort(ctx context.Context) error {
	inProgress, err := d.repo.MergeInProgress(ctx)
	if err != nil {
		return err
	}
	if !inProgress {
		return nil
	}
	return d.repo.AbortMerge(ctx)
}
