package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Repo is a Gateway backed by the git CLI for working-tree operations and
// go-git for read-only ref queries.
type Repo struct {
	dir string
}

var _ Gateway = (*Repo)(nil)

// Open returns a Repo for the clone at dir, cloning url into it first when
// dir does not exist yet.
func Open(ctx context.Context, url, dir string) (*Repo, error) {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating work dir: %w", err)
		}
		cmd := exec.CommandContext(ctx, "git", "clone", url, dir)
		cmd.Env = gitEnv()
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, &CommandError{Args: []string{"clone", url, dir}, Output: string(out), Err: err}
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking clone dir: %w", err)
	}

	if _, err := git.PlainOpen(dir); err != nil {
		return nil, fmt.Errorf("opening clone %s: %w", dir, err)
	}
	return &Repo{dir: dir}, nil
}

func (r *Repo) Dir() string { return r.dir }

func (r *Repo) Fetch(ctx context.Context, remote string) error {
	_, err := r.run(ctx, "fetch", "--prune", remote)
	return err
}

func (r *Repo) Checkout(ctx context.Context, ref string) error {
	_, err := r.run(ctx, "checkout", ref)
	return err
}

func (r *Repo) Pull(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, "pull", "--ff-only", remote, branch)
	return err
}

func (r *Repo) TrialMerge(ctx context.Context, ref string) ([]string, error) {
	_, mergeErr := r.run(ctx, "merge", "--no-commit", "--no-ff", ref)
	if mergeErr == nil {
		return nil, nil
	}

	out, err := r.run(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, errors.Join(mergeErr, err)
	}
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMergeFailed, mergeErr)
	}
	return paths, nil
}

func (r *Repo) AbortMerge(ctx context.Context) error {
	_, err := r.run(ctx, "merge", "--abort")
	return err
}

func (r *Repo) MergeInProgress(ctx context.Context) (bool, error) {
	_, err := r.run(ctx, "rev-parse", "-q", "--verify", "MERGE_HEAD")
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, err
}

func (r *Repo) MergeWithOursStrategy(ctx context.Context, ref string) error {
	_, err := r.run(ctx, "merge", "-X", "ours", "--no-ff", "--no-edit", ref)
	return err
}

func (r *Repo) CreateOrResetBranch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "checkout", "-B", name)
	return err
}

func (r *Repo) DeleteBranch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "branch", "-D", name)
	return err
}

func (r *Repo) Push(ctx context.Context, remote, branch string, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remote, branch)
	_, err := r.run(ctx, args...)
	return err
}

// run executes git in the working tree and returns its combined output.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	cmd.Env = gitEnv()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), &CommandError{Args: args, Output: string(out), Err: err}
	}
	return string(out), nil
}

// gitEnv disables interactive prompts so a missing credential fails instead of hanging.
func gitEnv() []string {
	return append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_MERGE_AUTOEDIT=no")
}
