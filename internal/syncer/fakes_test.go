package syncer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/alanmeadows/autosync/internal/platform"
	"github.com/alanmeadows/autosync/internal/vcs"
)

// fakeRepo is a stateful vcs.Gateway that records every call.
type fakeRepo struct {
	mu sync.Mutex

	remoteRefs []string
	// ahead maps "from..excluding" to the commits from has that excluding lacks.
	ahead map[string][]string
	// conflicts maps a merge ref to the paths a trial merge reports.
	conflicts map[string][]string

	fetchErr error
	trialErr error
	pushErr  error
	panicOn  string

	current string
	merging bool
	calls   []string
}

var _ vcs.Gateway = (*fakeRepo)(nil)

func newFakeRepo(refs ...string) *fakeRepo {
	return &fakeRepo{
		remoteRefs: refs,
		ahead:      map[string][]string{},
		conflicts:  map[string][]string{},
		current:    "main",
	}
}

func (f *fakeRepo) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := fmt.Sprintf(format, args...)
	f.calls = append(f.calls, call)
	if f.panicOn != "" && strings.HasPrefix(call, f.panicOn) {
		panic("boom: " + call)
	}
}

func (f *fakeRepo) called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.ContainsFunc(f.calls, func(c string) bool { return strings.HasPrefix(c, prefix) })
}

func (f *fakeRepo) Dir() string { return "/fake" }

func (f *fakeRepo) Fetch(ctx context.Context, remote string) error {
	f.record("fetch %s", remote)
	return f.fetchErr
}

func (f *fakeRepo) Checkout(ctx context.Context, ref string) error {
	f.record("checkout %s", ref)
	f.current = ref
	return nil
}

func (f *fakeRepo) Pull(ctx context.Context, remote, branch string) error {
	f.record("pull %s %s", remote, branch)
	return nil
}

func (f *fakeRepo) ListRemoteRefs(ctx context.Context, remote string) ([]string, error) {
	f.record("list-refs %s", remote)
	return slices.Clone(f.remoteRefs), nil
}

func (f *fakeRepo) DivergingCommits(ctx context.Context, from, excluding string) ([]string, error) {
	f.record("rev-list %s ^%s", from, excluding)
	return f.ahead[from+".."+excluding], nil
}

func (f *fakeRepo) TrialMerge(ctx context.Context, ref string) ([]string, error) {
	f.record("trial-merge %s", ref)
	f.merging = true
	if f.trialErr != nil {
		return nil, f.trialErr
	}
	return f.conflicts[ref], nil
}

func (f *fakeRepo) AbortMerge(ctx context.Context) error {
	f.record("merge --abort")
	f.merging = false
	return nil
}

func (f *fakeRepo) MergeInProgress(ctx context.Context) (bool, error) {
	return f.merging, nil
}

func (f *fakeRepo) MergeWithOursStrategy(ctx context.Context, ref string) error {
	f.record("merge-ours %s", ref)
	return nil
}

func (f *fakeRepo) CreateOrResetBranch(ctx context.Context, name string) error {
	f.record("branch-reset %s", name)
	f.current = name
	return nil
}

func (f *fakeRepo) DeleteBranch(ctx context.Context, name string) error {
	f.record("branch-delete %s", name)
	return nil
}

func (f *fakeRepo) Push(ctx context.Context, remote, branch string, force bool) error {
	f.record("push %s %s force=%v", remote, branch, force)
	return f.pushErr
}

// fakePlatform is a stateful platform.Gateway holding open requests in memory.
type fakePlatform struct {
	mu sync.Mutex

	defaultBranch string
	open          map[string]*platform.ReviewRequest
	next          int
	readiness     platform.MergeReadiness

	defaultErr error
	createErr  error
	mergeErr   error

	calls []string
}

var _ platform.Gateway = (*fakePlatform)(nil)

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		defaultBranch: "main",
		open:          map[string]*platform.ReviewRequest{},
		next:          1,
		readiness:     platform.ReadinessClean,
	}
}

func key(head, base string) string { return head + "->" + base }

func (f *fakePlatform) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakePlatform) called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.ContainsFunc(f.calls, func(c string) bool { return strings.HasPrefix(c, prefix) })
}

// seed opens a request as if a previous run had created it.
func (f *fakePlatform) seed(head, base string) *platform.ReviewRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr := &platform.ReviewRequest{Number: f.next, HeadBranch: head, BaseBranch: base, IsOpen: true}
	f.next++
	f.open[key(head, base)] = pr
	return pr
}

func (f *fakePlatform) Name() string             { return "fake" }

func (f *fakePlatform) DefaultBranch(ctx context.Context) (string, error) {
	return f.defaultBranch, f.defaultErr
}

func (f *fakePlatform) FindOpenRequest(ctx context.Context, head, base string) (*platform.ReviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("find %s", key(head, base))
	if pr, ok := f.open[key(head, base)]; ok {
		cp := *pr
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePlatform) CreateRequest(ctx context.Context, req platform.NewRequest) (*platform.ReviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create %s", key(req.Head, req.Base))
	if f.createErr != nil {
		return nil, f.createErr
	}
	pr := &platform.ReviewRequest{
		Number:     f.next,
		HeadBranch: req.Head,
		BaseBranch: req.Base,
		Title:      req.Title,
		Body:       req.Body,
		URL:        fmt.Sprintf("https://example.test/pull/%d", f.next),
		IsOpen:     true,
	}
	f.next++
	f.open[key(req.Head, req.Base)] = pr
	cp := *pr
	return &cp, nil
}

func (f *fakePlatform) Refresh(ctx context.Context, req *platform.ReviewRequest) (*platform.ReviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("refresh #%d", req.Number)
	cp := *req
	cp.Readiness = f.readiness
	return &cp, nil
}

func (f *fakePlatform) Merge(ctx context.Context, req *platform.ReviewRequest) (*platform.MergeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("merge #%d", req.Number)
	if f.mergeErr != nil {
		return nil, f.mergeErr
	}
	delete(f.open, key(req.HeadBranch, req.BaseBranch))
	return &platform.MergeResult{Merged: true, SHA: "deadbeef"}, nil
}

func (f *fakePlatform) CloseRequest(ctx context.Context, req *platform.ReviewRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("close #%d", req.Number)
	delete(f.open, key(req.HeadBranch, req.BaseBranch))
	return nil
}
