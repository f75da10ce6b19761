package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/alanmeadows/autosync/internal/config"
	"github.com/alanmeadows/autosync/internal/platform"
	"github.com/alanmeadows/autosync/internal/vcs"
)

// Orchestrator walks every configured pair in order on a single working clone.
type Orchestrator struct {
	repo     vcs.Gateway
	platform platform.Gateway
	cfg      *config.Config
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	// Set by Run.
	defaultBranch string
	detector      *Detector
	lifecycle     *Lifecycle
	resolver      *Resolver
}

func NewOrchestrator(repo vcs.Gateway, p platform.Gateway, cfg *config.Config, opts Options, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		repo:     repo,
		platform: p,
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Run syncs every pair and returns the per-pair outcomes. The error is only
// non-nil when the run could not start; failures inside a pair become
// Failed outcomes. Cancelling ctx stops the run before the next pair.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: ulid.Make().String(), Started: o.now()}
	logger := o.logger.With("run_id", report.RunID)

	defaultBranch, err := o.platform.DefaultBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving default branch: %w", err)
	}
	o.defaultBranch = defaultBranch
	o.detector = NewDetector(o.repo, logger)
	o.lifecycle = NewLifecycle(o.platform, o.opts, logger)
	o.resolver = NewResolver(o.repo, o.lifecycle, ResolverConfig{
		Remote:        o.cfg.Remote,
		BranchPrefix:  o.cfg.ConflictBranchPrefix,
		DefaultBranch: defaultBranch,
	}, o.opts, logger)

	pairs := ExpandPairs(o.cfg.Branches)
	logger.Info("starting sync run", "pairs", len(pairs), "dry_run", o.opts.DryRun, "default_branch", defaultBranch)
	o.restore(ctx, logger)

	for i, pair := range pairs {
		if ctx.Err() != nil {
			logger.Warn("run cancelled, skipping remaining pairs", "remaining", len(pairs)-i)
			break
		}
		if out, ok := o.syncPair(ctx, pair, logger); ok {
			report.Outcomes = append(report.Outcomes, out)
		}
	}

	report.Finished = o.now()
	logger.Info("sync run finished", "outcomes", len(report.Outcomes), "failed", report.Count(Failed))
	return report, nil
}

// syncPair isolates one pair: errors and panics become a Failed outcome and
// the working tree is restored whatever happens. ok is false when the pair
// was skipped without an outcome.
func (o *Orchestrator) syncPair(ctx context.Context, pair BranchPair, logger *slog.Logger) (out Outcome, ok bool) {
	log := logger.With("base", pair.Base, "destination", pair.Destination)
	defer o.restore(ctx, log)
	defer func() {
		if r := recover(); r != nil {
			log.Error("sync panicked", "panic", r)
			out, ok = Outcome{Kind: Failed, Pair: pair, Reason: fmt.Sprint(r)}, true
		}
	}()

	out, ok, err := o.process(ctx, pair, log)
	if err != nil {
		log.Error("sync failed", "error", err)
		return Outcome{Kind: Failed, Pair: pair, Reason: err.Error()}, true
	}
	return out, ok
}

func (o *Orchestrator) process(ctx context.Context, pair BranchPair, log *slog.Logger) (Outcome, bool, error) {
	remote := o.cfg.Remote
	if err := o.repo.Fetch(ctx, remote); err != nil {
		return Outcome{}, false, fmt.Errorf("fetching %s: %w", remote, err)
	}
	refs, err := o.repo.ListRemoteRefs(ctx, remote)
	if err != nil {
		return Outcome{}, false, fmt.Errorf("listing remote branches: %w", err)
	}
	for _, b := range []string{pair.Base, pair.Destination} {
		if !slices.Contains(refs, b) {
			log.Warn("branch does not exist on remote, skipping pair", "missing", b)
			return Outcome{}, false, nil
		}
	}

	if err := o.repo.Checkout(ctx, pair.Destination); err != nil {
		return Outcome{}, false, fmt.Errorf("checking out %s: %w", pair.Destination, err)
	}
	if err := o.repo.Pull(ctx, remote, pair.Destination); err != nil {
		return Outcome{}, false, fmt.Errorf("pulling %s: %w", pair.Destination, err)
	}

	baseRef := remote + "/" + pair.Base
	ahead, err := o.repo.DivergingCommits(ctx, baseRef, remote+"/"+pair.Destination)
	if err != nil {
		return Outcome{}, false, fmt.Errorf("comparing branches: %w", err)
	}

	if len(ahead) == 0 {
		closed, err := o.lifecycle.CloseStale(ctx, pair.Base, pair.Destination)
		if err != nil {
			return Outcome{}, false, err
		}
		out := Outcome{Kind: UpToDate, Pair: pair, DryRun: o.opts.DryRun && closed != nil}
		if closed != nil {
			out.RequestNumber, out.RequestURL = closed.Number, closed.URL
		}
		log.Info("destination already contains base")
		return out, true, nil
	}
	log.Info("base has commits destination lacks", "commits", len(ahead))

	res, err := o.detector.Detect(ctx, baseRef)
	if err != nil {
		return Outcome{}, false, err
	}

	if !res.HasConflict() {
		out, err := o.lifecycle.Ensure(ctx, RequestSpec{
			Head:  pair.Base,
			Base:  pair.Destination,
			Title: syncTitle(pair),
			Body:  syncBody(pair),
		})
		if err != nil {
			return Outcome{}, false, err
		}
		out.Pair = pair
		return out, true, nil
	}

	paths := res.Conflicts.Paths()
	log.Warn("trial merge has conflicts", "files", paths)

	if o.opts.AutoResolve && ConfinedTo(res.Conflicts, o.cfg.ProtectedPrefix) {
		out, err := o.resolver.Resolve(ctx, pair, res.Conflicts)
		if err != nil {
			return Outcome{}, false, fmt.Errorf("auto-resolving conflicts: %w", err)
		}
		return out, true, nil
	}

	reason := "conflicts need manual resolution"
	if !o.opts.AutoResolve && ConfinedTo(res.Conflicts, o.cfg.ProtectedPrefix) {
		reason = "conflicts are auto-resolvable but auto-resolution is disabled"
	}
	log.Warn("skipping pair", "reason", reason)
	return Outcome{Kind: ConflictBlocked, Pair: pair, Conflicts: paths, Reason: reason}, true, nil
}

// restore puts the working tree back on the default branch with no merge in
// progress. It runs even after ctx is cancelled.
func (o *Orchestrator) restore(ctx context.Context, log *slog.Logger) {
	ctx = context.WithoutCancel(ctx)
	inProgress, err := o.repo.MergeInProgress(ctx)
	if err != nil {
		log.Warn("checking for dangling merge", "error", err)
	} else if inProgress {
		if err := o.repo.AbortMerge(ctx); err != nil {
			log.Warn("aborting dangling merge", "error", err)
		}
	}
	if err := o.repo.Checkout(ctx, o.defaultBranch); err != nil {
		log.Warn("checking out default branch", "branch", o.defaultBranch, "error", err)
	}
}
