package github

import (
	"errors"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v82/github"

	"github.com/alanmeadows/autosync/internal/platform"
)

// classify wraps err in a platform.Error whose Reason is derived from the
// GitHub response status and validation messages.
func classify(op string, err error) error {
	return &platform.Error{Reason: reasonFor(op, err), Op: op, Err: err}
}

func reasonFor(op string, err error) platform.FailureReason {
	var ghErr *gh.ErrorResponse
	if !errors.As(err, &ghErr) {
		if strings.Contains(err.Error(), "Could not resolve to a PullRequest") {
			return platform.ReasonNotFound
		}
		return platform.ReasonUnclassified
	}
	if ghErr.Response == nil {
		return platform.ReasonUnclassified
	}

	switch ghErr.Response.StatusCode {
	case http.StatusNotFound:
		return platform.ReasonNotFound
	case http.StatusMethodNotAllowed:
		return platform.ReasonMergeNotAllowed
	case http.StatusForbidden:
		if op == "merge" {
			return platform.ReasonMergeNotAllowed
		}
	case http.StatusUnprocessableEntity:
		return validationReason(ghErr)
	}
	return platform.ReasonUnclassified
}

// validationReason inspects the messages of a 422 response. GitHub puts the
// interesting text in the per-field errors, not the top-level message.
func validationReason(ghErr *gh.ErrorResponse) platform.FailureReason {
	msgs := []string{ghErr.Message}
	for _, e := range ghErr.Errors {
		msgs = append(msgs, e.Message)
	}
	for _, m := range msgs {
		m = strings.ToLower(m)
		switch {
		case strings.HasPrefix(m, "a pull request already exists"):
			return platform.ReasonAlreadyExists
		case strings.HasPrefix(m, "no commits between"):
			return platform.ReasonNoCommitsBetween
		}
	}
	return platform.ReasonUnclassified
}
