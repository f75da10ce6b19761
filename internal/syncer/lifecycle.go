package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanmeadows/autosync/internal/platform"
)

// RequestSpec describes the review request a pair needs.
type RequestSpec struct {
	Head  string
	Base  string
	Title string
	Body  string
}

// Lifecycle finds, opens, merges and closes review requests. It never opens
// a second request for a (head, base) that already has an open one.
type Lifecycle struct {
	platform platform.Gateway
	opts     Options
	logger   *slog.Logger
}

func NewLifecycle(p platform.Gateway, opts Options, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{platform: p, opts: opts, logger: logger}
}

// Ensure makes sure an open request exists for rs and, when merging is
// enabled, tries to merge it. The returned Outcome has no Pair set.
func (l *Lifecycle) Ensure(ctx context.Context, rs RequestSpec) (Outcome, error) {
	log := l.logger.With("head", rs.Head, "base", rs.Base)

	existing, err := l.platform.FindOpenRequest(ctx, rs.Head, rs.Base)
	if err != nil {
		return Outcome{}, fmt.Errorf("finding open request: %w", err)
	}
	if existing != nil {
		log.Info("review request already open", "number", existing.Number, "url", existing.URL)
		l.Merge(ctx, existing)
		return Outcome{Kind: RequestUpdated, RequestNumber: existing.Number, RequestURL: existing.URL}, nil
	}

	if l.opts.DryRun {
		log.Info("dry run: would open review request", "title", rs.Title)
		return Outcome{Kind: RequestOpened, DryRun: true}, nil
	}

	created, err := l.platform.CreateRequest(ctx, platform.NewRequest{
		Head:  rs.Head,
		Base:  rs.Base,
		Title: rs.Title,
		Body:  rs.Body,
	})
	if err != nil {
		switch platform.ReasonOf(err) {
		case platform.ReasonAlreadyExists:
			log.Warn("review request was opened concurrently", "error", err)
			return Outcome{Kind: RequestUpdated}, nil
		case platform.ReasonNoCommitsBetween:
			log.Warn("platform reports nothing to merge", "error", err)
			return Outcome{Kind: UpToDate}, nil
		default:
			return Outcome{}, fmt.Errorf("opening review request: %w", err)
		}
	}

	log.Info("opened review request", "number", created.Number, "url", created.URL)
	l.Merge(ctx, created)
	return Outcome{Kind: RequestOpened, RequestNumber: created.Number, RequestURL: created.URL}, nil
}

// Merge refreshes req and merges it when the platform reports it clean.
// Nothing here is fatal to the pair; failures are logged.
func (l *Lifecycle) Merge(ctx context.Context, req *platform.ReviewRequest) MergeAction {
	if !l.opts.MergeRequests {
		return WarnSkip
	}
	log := l.logger.With("number", req.Number)

	fresh, err := l.platform.Refresh(ctx, req)
	if err != nil {
		log.Error("refreshing review request", "error", err)
		return WarnSkip
	}
	if !fresh.IsOpen {
		log.Warn("review request is no longer open, not merging")
		return WarnSkip
	}

	action := DecideMerge(fresh.Readiness)
	switch action {
	case AttemptMerge:
		if l.opts.DryRun {
			log.Info("dry run: would merge review request")
			return action
		}
		res, err := l.platform.Merge(ctx, fresh)
		switch {
		case err != nil && platform.ReasonOf(err) == platform.ReasonMergeNotAllowed:
			log.Error("merge denied by policy", "error", err)
		case err != nil:
			log.Error("merge failed: unknown API failure", "error", err)
		case res.Merged:
			log.Info("merged review request", "sha", res.SHA)
		default:
			log.Warn("platform declined the merge", "message", res.Message)
		}
	case LogFatal:
		log.Error("review request has merge conflicts and needs manual resolution", "readiness", fresh.Readiness)
	default:
		log.Warn("review request not mergeable yet, skipping", "readiness", fresh.Readiness)
	}
	return action
}

// CloseStale closes the open request from head into base, if any. It
// returns the request it closed (or would close in a dry run).
func (l *Lifecycle) CloseStale(ctx context.Context, head, base string) (*platform.ReviewRequest, error) {
	existing, err := l.platform.FindOpenRequest(ctx, head, base)
	if err != nil {
		return nil, fmt.Errorf("finding open request: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	log := l.logger.With("head", head, "base", base, "number", existing.Number)
	if l.opts.DryRun {
		log.Info("dry run: would close stale review request")
		return existing, nil
	}
	if err := l.platform.CloseRequest(ctx, existing); err != nil {
		return nil, fmt.Errorf("closing stale request #%d: %w", existing.Number, err)
	}
	log.Info("closed stale review request")
	return existing, nil
}
