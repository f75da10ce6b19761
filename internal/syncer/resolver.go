package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanmeadows/autosync/internal/vcs"
)

// ResolverConfig holds the repository settings the resolver needs.
type ResolverConfig struct {
	Remote        string
	BranchPrefix  string
	DefaultBranch string
}

// Resolver merges a base into its destination on a dedicated branch,
// taking the destination's side of every conflicting hunk, and opens a
// request for the result. Callers decide whether the conflicts qualify.
type Resolver struct {
	repo      vcs.Gateway
	lifecycle *Lifecycle
	cfg       ResolverConfig
	opts      Options
	logger    *slog.Logger
}

func NewResolver(repo vcs.Gateway, lifecycle *Lifecycle, cfg ResolverConfig, opts Options, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, lifecycle: lifecycle, cfg: cfg, opts: opts, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, pair BranchPair, conflicts ConflictSet) (Outcome, error) {
	branch := ResolutionBranchName(r.cfg.BranchPrefix, pair.Base, pair.Destination)
	log := r.logger.With("branch", branch)
	out := Outcome{
		Kind:             ConflictAutoResolved,
		Pair:             pair,
		Conflicts:        conflicts.Paths(),
		ResolutionBranch: branch,
	}

	if r.opts.DryRun {
		log.Info("dry run: would auto-resolve conflicts in favor of destination", "files", out.Conflicts)
		out.DryRun = true
		return out, nil
	}

	if err := r.apply(ctx, pair, branch); err != nil {
		r.cleanup(ctx, branch)
		return Outcome{}, err
	}
	log.Info("pushed resolution branch", "files", out.Conflicts)

	req, err := r.lifecycle.Ensure(ctx, RequestSpec{
		Head:  branch,
		Base:  pair.Destination,
		Title: resolutionTitle(pair),
		Body:  resolutionBody(pair, conflicts),
	})
	if err != nil {
		r.cleanup(ctx, branch)
		return Outcome{}, err
	}
	out.RequestNumber = req.RequestNumber
	out.RequestURL = req.RequestURL
	return out, nil
}

func (r *Resolver) apply(ctx context.Context, pair BranchPair, branch string) error {
	if err := r.repo.Checkout(ctx, pair.Destination); err != nil {
		return fmt.Errorf("checking out %s: %w", pair.Destination, err)
	}
	if err := r.repo.Pull(ctx, r.cfg.Remote, pair.Destination); err != nil {
		return fmt.Errorf("pulling %s: %w", pair.Destination, err)
	}
	if err := r.repo.CreateOrResetBranch(ctx, branch); err != nil {
		return fmt.Errorf("creating %s: %w", branch, err)
	}
	ref := r.cfg.Remote + "/" + pair.Base
	if err := r.repo.MergeWithOursStrategy(ctx, ref); err != nil {
		return fmt.Errorf("merging %s into %s: %w", ref, branch, err)
	}
	if err := r.repo.Push(ctx, r.cfg.Remote, branch, true); err != nil {
		return fmt.Errorf("pushing %s: %w", branch, err)
	}
	return nil
}

// cleanup is best effort; the orchestrator restores the working tree again afterwards.
func (r *Resolver) cleanup(ctx context.Context, branch string) {
	ctx = context.WithoutCancel(ctx)
	if inProgress, err := r.repo.MergeInProgress(ctx); err == nil && inProgress {
		if err := r.repo.AbortMerge(ctx); err != nil {
			r.logger.Debug("aborting resolution merge", "error", err)
		}
	}
	if err := r.repo.Checkout(ctx, r.cfg.DefaultBranch); err != nil {
		r.logger.Debug("checking out default branch", "error", err)
	}
	if err := r.repo.DeleteBranch(ctx, branch); err != nil {
		r.logger.Debug("deleting resolution branch", "branch", branch, "error", err)
	}
}
