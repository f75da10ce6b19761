package vcs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// The clone is reopened for each query so refs written by the git CLI are
// always visible.
func (r *Repo) open() (*git.Repository, error) {
	repo, err := git.PlainOpen(r.dir)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", r.dir, err)
	}
	return repo, nil
}

func (r *Repo) ListRemoteRefs(ctx context.Context, remote string) ([]string, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	iter, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing refs: %w", err)
	}
	defer iter.Close()

	prefix := remote + "/"
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !ref.Name().IsRemote() {
			return nil
		}
		short := ref.Name().Short()
		if !strings.HasPrefix(short, prefix) {
			return nil
		}
		name := strings.TrimPrefix(short, prefix)
		if name == "HEAD" {
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (r *Repo) DivergingCommits(ctx context.Context, from, excluding string) ([]string, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	fromCommit, err := resolveCommit(repo, from)
	if err != nil {
		return nil, err
	}
	exclCommit, err := resolveCommit(repo, excluding)
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]bool)
	err = object.NewCommitPreorderIter(exclCommit, nil, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", excluding, err)
	}

	var hashes []string
	err = object.NewCommitPreorderIter(fromCommit, seen, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		hashes = append(hashes, c.Hash.String())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", from, err)
	}
	return hashes, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", rev, err)
	}
	c, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", rev, err)
	}
	return c, nil
}
