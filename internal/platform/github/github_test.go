package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	gh "github.com/google/go-github/v82/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanmeadows/autosync/internal/platform"
)

// newTestBackend creates a Backend wired to a test HTTP server.
func newTestBackend(t *testing.T, handler http.Handler) (*Backend, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gh.NewClient(nil).WithEnterpriseURLs(server.URL+"/", server.URL+"/")
	require.NoError(t, err)

	return &Backend{
		client:  client,
		owner:   "testowner",
		repo:    "testrepo",
		token:   "test-token",
		baseURL: server.URL,
	}, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestName(t *testing.T) {
	b := &Backend{}
	assert.Equal(t, "github", b.Name())
}

func TestOpen_Hosts(t *testing.T) {
	tests := []struct {
		url     string
		matches bool
	}{
		{"https://github.com/owner/repo.git", true},
		{"https://www.github.com/owner/repo", true},
		{"git@github.com:owner/repo.git", true},
		{"ssh://git@github.com/owner/repo.git", true},
		{"https://GitHub.com/owner/repo", true},
		{"https://gitlab.com/owner/repo.git", false},
		{"git@gitlab.com:owner/repo.git", false},
		{"not-a-url", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			_, err := Open(tt.url, "tok")
			if tt.matches {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, platform.ErrUnsupported)
			}
		})
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RepoRef
		wantErr bool
	}{
		{
			name:  "https with .git",
			input: "https://github.com/org/widgets.git",
			want:  RepoRef{Host: "github.com", Owner: "org", Name: "widgets"},
		},
		{
			name:  "https trailing slash",
			input: "https://GitHub.com/org/widgets/",
			want:  RepoRef{Host: "github.com", Owner: "org", Name: "widgets"},
		},
		{
			name:  "scp-style ssh",
			input: "git@github.com:org/widgets.git",
			want:  RepoRef{Host: "github.com", Owner: "org", Name: "widgets"},
		},
		{
			name:  "ssh scheme",
			input: "ssh://git@github.com/org/widgets",
			want:  RepoRef{Host: "github.com", Owner: "org", Name: "widgets"},
		},
		{
			name:  "ssh scheme with port",
			input: "ssh://git@github.com:22/org/widgets.git",
			want:  RepoRef{Host: "github.com", Owner: "org", Name: "widgets"},
		},
		{
			name:  "scp-style without user",
			input: "github.com:org/widgets.git",
			want:  RepoRef{Host: "github.com", Owner: "org", Name: "widgets"},
		},
		{name: "missing repo", input: "https://github.com/org", wantErr: true},
		{name: "local path", input: "/srv/git/org/widgets.git", wantErr: true},
		{name: "too deep", input: "https://github.com/org/widgets/pull/1", wantErr: true},
		{name: "no host", input: "widgets", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen(t *testing.T) {
	g, err := Open("git@github.com:org/widgets.git", "tok")
	require.NoError(t, err)
	assert.Equal(t, "github", g.Name())
	b := g.(*Backend)
	assert.Equal(t, "org", b.owner)
	assert.Equal(t, "widgets", b.repo)

	for _, u := range []string{"https://gitlab.com/org/widgets.git", "not a url", "https://github.com/org"} {
		_, err := Open(u, "tok")
		assert.ErrorIs(t, err, platform.ErrUnsupported, u)
	}
}

func TestDefaultBranch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/testowner/testrepo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"default_branch": "main"})
	})
	b, _ := newTestBackend(t, mux)

	branch, err := b.DefaultBranch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestDefaultBranch_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/testowner/testrepo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})
	b, _ := newTestBackend(t, mux)

	_, err := b.DefaultBranch(t.Context())
	require.Error(t, err)
	assert.Equal(t, platform.ReasonNotFound, platform.ReasonOf(err))
}

func TestFindOpenRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/testowner/testrepo/pulls", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "open", q.Get("state"))
		assert.Equal(t, "main", q.Get("base"))
		if q.Get("head") != "testowner:release" {
			writeJSON(t, w, http.StatusOK, []any{})
			return
		}
		writeJSON(t, w, http.StatusOK, []map[string]any{{
			"number":   7,
			"state":    "open",
			"title":    "[Automated Sync] Sync release into main",
			"html_url": "https://github.com/testowner/testrepo/pull/7",
			"head":     map[string]any{"ref": "release"},
			"base":     map[string]any{"ref": "main"},
		}})
	})
	b, _ := newTestBackend(t, mux)

	pr, err := b.FindOpenRequest(t.Context(), "release", "main")
	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.Equal(t, 7, pr.Number)
	assert.True(t, pr.IsOpen)
	assert.Equal(t, "release", pr.HeadBranch)
	assert.Equal(t, "main", pr.BaseBranch)
	assert.Equal(t, platform.ReadinessUnknown, pr.Readiness)

	pr, err = b.FindOpenRequest(t.Context(), "other", "main")
	require.NoError(t, err)
	assert.Nil(t, pr)
}

func TestCreateRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v3/repos/testowner/testrepo/pulls", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "main", body["head"])
		assert.Equal(t, "release-1", body["base"])
		assert.Equal(t, "[Automated Sync] Sync main into release-1", body["title"])
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"number":   12,
			"state":    "open",
			"title":    body["title"],
			"body":     body["body"],
			"html_url": "https://github.com/testowner/testrepo/pull/12",
			"head":     map[string]any{"ref": "main"},
			"base":     map[string]any{"ref": "release-1"},
		})
	})
	b, _ := newTestBackend(t, mux)

	pr, err := b.CreateRequest(t.Context(), platform.NewRequest{
		Head:  "main",
		Base:  "release-1",
		Title: "[Automated Sync] Sync main into release-1",
		Body:  "sync",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, pr.Number)
	assert.Equal(t, "https://github.com/testowner/testrepo/pull/12", pr.URL)
}

func TestCreateRequest_Classification(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    platform.FailureReason
	}{
		{"already exists", "A pull request already exists for testowner:main.", platform.ReasonAlreadyExists},
		{"no commits", "No commits between release-1 and main", platform.ReasonNoCommitsBetween},
		{"other validation", "Head sha can't be blank", platform.ReasonUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/v3/repos/testowner/testrepo/pulls", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{
					"message": "Validation Failed",
					"errors": []map[string]any{{
						"resource": "PullRequest",
						"code":     "custom",
						"message":  tt.message,
					}},
				})
			})
			b, _ := newTestBackend(t, mux)

			_, err := b.CreateRequest(t.Context(), platform.NewRequest{Head: "main", Base: "release-1"})
			require.Error(t, err)
			assert.Equal(t, tt.want, platform.ReasonOf(err))
		})
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		status  string
		isDraft bool
		state   string
		want    platform.MergeReadiness
		open    bool
	}{
		{status: "CLEAN", state: "OPEN", want: platform.ReadinessClean, open: true},
		{status: "DIRTY", state: "OPEN", want: platform.ReadinessDirty, open: true},
		{status: "BLOCKED", state: "OPEN", want: platform.ReadinessBlocked, open: true},
		{status: "UNSTABLE", state: "OPEN", want: platform.ReadinessUnstable, open: true},
		{status: "BEHIND", state: "OPEN", want: platform.ReadinessUnknown, open: true},
		{status: "HAS_HOOKS", state: "OPEN", want: platform.ReadinessUnknown, open: true},
		{status: "UNKNOWN", state: "OPEN", want: platform.ReadinessUnknown, open: true},
		{status: "CLEAN", isDraft: true, state: "OPEN", want: platform.ReadinessDraft, open: true},
		{status: "CLEAN", state: "MERGED", want: platform.ReadinessClean, open: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/draft=%v/%s", tt.status, tt.isDraft, tt.state), func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/graphql", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				raw, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				var body struct {
					Query     string         `json:"query"`
					Variables map[string]any `json:"variables"`
				}
				require.NoError(t, json.Unmarshal(raw, &body))
				assert.Contains(t, body.Query, "mergeStateStatus")
				assert.Equal(t, float64(42), body.Variables["number"])

				writeJSON(t, w, http.StatusOK, map[string]any{
					"data": map[string]any{
						"repository": map[string]any{
							"pullRequest": map[string]any{
								"number":           42,
								"title":            "t",
								"body":             "b",
								"url":              "https://github.com/testowner/testrepo/pull/42",
								"state":            tt.state,
								"isDraft":          tt.isDraft,
								"mergeStateStatus": tt.status,
								"headRefName":      "main",
								"baseRefName":      "release-1",
							},
						},
					},
				})
			})
			b, _ := newTestBackend(t, mux)

			pr, err := b.Refresh(t.Context(), &platform.ReviewRequest{Number: 42})
			require.NoError(t, err)
			assert.Equal(t, tt.want, pr.Readiness)
			assert.Equal(t, tt.open, pr.IsOpen)
			assert.Equal(t, "main", pr.HeadBranch)
			assert.Equal(t, "release-1", pr.BaseBranch)
		})
	}
}

func TestMapMergeState(t *testing.T) {
	assert.Equal(t, platform.ReadinessDraft, mapMergeState(githubv4.MergeStateStatusDraft))
	assert.Equal(t, platform.ReadinessUnknown, mapMergeState(githubv4.MergeStateStatus("SOMETHING_NEW")))
}

func TestMerge(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v3/repos/testowner/testrepo/pulls/42/merge", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"merged":  true,
			"sha":     "abc123",
			"message": "Pull Request successfully merged",
		})
	})
	mux.HandleFunc("PUT /api/v3/repos/testowner/testrepo/pulls/43/merge", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusMethodNotAllowed, map[string]any{"message": "Pull Request is not mergeable"})
	})
	mux.HandleFunc("PUT /api/v3/repos/testowner/testrepo/pulls/44/merge", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]any{"message": "Resource not accessible by integration"})
	})
	mux.HandleFunc("PUT /api/v3/repos/testowner/testrepo/pulls/45/merge", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]any{"message": "boom"})
	})
	b, _ := newTestBackend(t, mux)

	res, err := b.Merge(t.Context(), &platform.ReviewRequest{Number: 42})
	require.NoError(t, err)
	assert.True(t, res.Merged)
	assert.Equal(t, "abc123", res.SHA)

	_, err = b.Merge(t.Context(), &platform.ReviewRequest{Number: 43})
	assert.Equal(t, platform.ReasonMergeNotAllowed, platform.ReasonOf(err))

	_, err = b.Merge(t.Context(), &platform.ReviewRequest{Number: 44})
	assert.Equal(t, platform.ReasonMergeNotAllowed, platform.ReasonOf(err))

	_, err = b.Merge(t.Context(), &platform.ReviewRequest{Number: 45})
	require.Error(t, err)
	assert.Equal(t, platform.ReasonUnclassified, platform.ReasonOf(err))
}

func TestCloseRequest(t *testing.T) {
	var gotState string
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/v3/repos/testowner/testrepo/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotState, _ = body["state"].(string)
		writeJSON(t, w, http.StatusOK, map[string]any{"number": 42, "state": "closed"})
	})
	b, _ := newTestBackend(t, mux)

	require.NoError(t, b.CloseRequest(t.Context(), &platform.ReviewRequest{Number: 42}))
	assert.Equal(t, "closed", gotState)
}
