package github

import (
	"context"
	"fmt"
	"sync"

	github_ratelimit "github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/alanmeadows/autosync/internal/platform"
)

// Backend implements platform.Gateway for one GitHub repository.
type Backend struct {
	client    *gh.Client
	gqlOnce   sync.Once
	gqlClient *githubv4.Client
	owner     string
	repo      string
	token     string
	baseURL   string // override for testing
}

var _ platform.Gateway = (*Backend)(nil)

// NewBackend creates a new GitHub backend for the given owner/repo.
// Uses go-github-ratelimit middleware for automatic rate limit handling.
func NewBackend(owner, repo, token string) *Backend {
	rateLimiter := github_ratelimit.NewClient(nil)
	client := gh.NewClient(rateLimiter).WithAuthToken(token)
	return &Backend{
		client: client,
		owner:  owner,
		repo:   repo,
		token:  token,
	}
}

// Open is the platform.Factory for github.com repositories.
func Open(repoURL, token string) (platform.Gateway, error) {
	r, err := ParseRepoURL(repoURL)
	if err != nil || !isGitHubHost(r.Host) {
		return nil, platform.ErrUnsupported
	}
	return NewBackend(r.Owner, r.Name, token), nil
}

func isGitHubHost(host string) bool {
	return host == "github.com" || host == "www.github.com"
}

// Name returns "github".
func (b *Backend) Name() string {
	return "github"
}

func (b *Backend) DefaultBranch(ctx context.Context) (string, error) {
	repo, _, err := b.client.Repositories.Get(ctx, b.owner, b.repo)
	if err != nil {
		return "", classify("get repository", err)
	}
	branch := repo.GetDefaultBranch()
	if branch == "" {
		return "", fmt.Errorf("repository %s/%s reports no default branch", b.owner, b.repo)
	}
	return branch, nil
}

// FindOpenRequest lists open pull requests filtered by "owner:head" and base.
func (b *Backend) FindOpenRequest(ctx context.Context, head, base string) (*platform.ReviewRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		Head:        b.owner + ":" + head,
		Base:        base,
		ListOptions: gh.ListOptions{PerPage: 10},
	}
	prs, _, err := b.client.PullRequests.List(ctx, b.owner, b.repo, opts)
	if err != nil {
		return nil, classify("list pull requests", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return mapPR(prs[0]), nil
}

func (b *Backend) CreateRequest(ctx context.Context, req platform.NewRequest) (*platform.ReviewRequest, error) {
	pr, _, err := b.client.PullRequests.Create(ctx, b.owner, b.repo, &gh.NewPullRequest{
		Title: gh.Ptr(req.Title),
		Head:  gh.Ptr(req.Head),
		Base:  gh.Ptr(req.Base),
		Body:  gh.Ptr(req.Body),
	})
	if err != nil {
		return nil, classify("create pull request", err)
	}
	return mapPR(pr), nil
}

// Refresh re-reads the pull request over GraphQL, which reports
// mergeStateStatus without the lazy computation the REST mergeable_state needs.
func (b *Backend) Refresh(ctx context.Context, req *platform.ReviewRequest) (*platform.ReviewRequest, error) {
	var query struct {
		Repository struct {
			PullRequest struct {
				Number           int
				Title            string
				Body             string
				URL              string
				State            githubv4.PullRequestState
				IsDraft          bool
				MergeStateStatus githubv4.MergeStateStatus
				HeadRefName      string
				BaseRefName      string
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]any{
		"owner":  githubv4.String(b.owner),
		"name":   githubv4.String(b.repo),
		"number": githubv4.Int(req.Number),
	}
	if err := b.getGraphQLClient(ctx).Query(ctx, &query, vars); err != nil {
		return nil, classify("refresh pull request", err)
	}

	pr := query.Repository.PullRequest
	readiness := mapMergeState(pr.MergeStateStatus)
	if pr.IsDraft {
		readiness = platform.ReadinessDraft
	}
	return &platform.ReviewRequest{
		Number:     pr.Number,
		HeadBranch: pr.HeadRefName,
		BaseBranch: pr.BaseRefName,
		Title:      pr.Title,
		Body:       pr.Body,
		URL:        pr.URL,
		IsOpen:     pr.State == githubv4.PullRequestStateOpen,
		Readiness:  readiness,
	}, nil
}

func (b *Backend) Merge(ctx context.Context, req *platform.ReviewRequest) (*platform.MergeResult, error) {
	res, _, err := b.client.PullRequests.Merge(ctx, b.owner, b.repo, req.Number, "", &gh.PullRequestOptions{
		MergeMethod: "merge",
	})
	if err != nil {
		return nil, classify("merge", err)
	}
	return &platform.MergeResult{
		Merged:  res.GetMerged(),
		SHA:     res.GetSHA(),
		Message: res.GetMessage(),
	}, nil
}

func (b *Backend) CloseRequest(ctx context.Context, req *platform.ReviewRequest) error {
	_, _, err := b.client.PullRequests.Edit(ctx, b.owner, b.repo, req.Number, &gh.PullRequest{
		State: gh.Ptr("closed"),
	})
	if err != nil {
		return classify("close pull request", err)
	}
	return nil
}

// --- Internal helpers ---

// mapPR converts a GitHub PullRequest to platform.ReviewRequest. List and
// create responses carry no reliable merge state, so Readiness stays unknown
// until Refresh.
func mapPR(pr *gh.PullRequest) *platform.ReviewRequest {
	return &platform.ReviewRequest{
		Number:     pr.GetNumber(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		URL:        pr.GetHTMLURL(),
		IsOpen:     pr.GetState() == "open",
		Readiness:  platform.ReadinessUnknown,
	}
}

func mapMergeState(s githubv4.MergeStateStatus) platform.MergeReadiness {
	switch s {
	case githubv4.MergeStateStatusClean:
		return platform.ReadinessClean
	case githubv4.MergeStateStatusDirty:
		return platform.ReadinessDirty
	case githubv4.MergeStateStatusBlocked:
		return platform.ReadinessBlocked
	case githubv4.MergeStateStatusDraft:
		return platform.ReadinessDraft
	case githubv4.MergeStateStatusUnstable:
		return platform.ReadinessUnstable
	default:
		// BEHIND, HAS_HOOKS, UNKNOWN
		return platform.ReadinessUnknown
	}
}

// getGraphQLClient returns (and lazily creates) the GitHub GraphQL client.
// Thread-safe via sync.Once.
func (b *Backend) getGraphQLClient(ctx context.Context) *githubv4.Client {
	b.gqlOnce.Do(func() {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: b.token})
		httpClient := oauth2.NewClient(ctx, ts)
		if b.baseURL != "" {
			b.gqlClient = githubv4.NewEnterpriseClient(b.baseURL+"/api/graphql", httpClient)
			return
		}
		b.gqlClient = githubv4.NewClient(httpClient)
	})
	return b.gqlClient
}
