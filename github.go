package plotcache

import (
	"context"
	"net/http"

	"github.com/google/go-github/v67/github"

	"github.com/jmgilman/go/plotcache/errors"
)

// ArtifactData contains metadata about a workflow run artifact.
type ArtifactData struct {
	ID                 int64
	Name               string
	SizeInBytes        int64
	ArchiveDownloadURL string
	Expired            bool
}

// ArtifactLister lists the artifacts produced by a workflow run.
// The default implementation wraps the go-github SDK; tests substitute
// in-memory implementations.
type ArtifactLister interface {
	// ListRunArtifacts returns the artifacts of the given workflow run
	// in API order. Returns an empty slice if the run produced none.
	ListRunArtifacts(ctx context.Context, owner, repo string, runID int64) ([]*ArtifactData, error)
}

// SDKArtifactLister implements ArtifactLister using the go-github SDK.
type SDKArtifactLister struct {
	client *github.Client
}

// NewSDKArtifactLister creates a lister using the GitHub SDK. An empty
// token produces an unauthenticated client, which is sufficient for
// listing artifacts of public repositories.
//
// Example:
//
//	lister := plotcache.NewSDKArtifactLister("ghp_...")
//	locator, err := plotcache.NewRunListingLocator(lister)
func NewSDKArtifactLister(token string) *SDKArtifactLister {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &SDKArtifactLister{client: client}
}

// NewSDKArtifactListerWithClient creates a lister from a preconfigured
// go-github client. This allows full control over transport, base URL,
// and authentication.
func NewSDKArtifactListerWithClient(client *github.Client) (*SDKArtifactLister, error) {
	if client == nil {
		return nil, errors.New(errors.CodeInvalidConfig, "github client cannot be nil")
	}

	return &SDKArtifactLister{client: client}, nil
}

// ListRunArtifacts returns the artifacts of the given workflow run.
func (l *SDKArtifactLister) ListRunArtifacts(ctx context.Context, owner, repo string, runID int64) ([]*ArtifactData, error) {
	opts := &github.ListOptions{PerPage: 100}

	var result []*ArtifactData
	for {
		artifacts, resp, err := l.client.Actions.ListWorkflowRunArtifacts(ctx, owner, repo, runID, opts)
		if err != nil {
			return nil, wrapListError(err, resp, runID)
		}

		for _, a := range artifacts.Artifacts {
			result = append(result, &ArtifactData{
				ID:                 a.GetID(),
				Name:               a.GetName(),
				SizeInBytes:        a.GetSizeInBytes(),
				ArchiveDownloadURL: a.GetArchiveDownloadURL(),
				Expired:            a.GetExpired(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// wrapListError maps go-github errors onto the error taxonomy. A missing
// run also satisfies ErrArtifactNotFound so callers can treat "no such
// run" and "run with no artifacts" uniformly.
func wrapListError(err error, resp *github.Response, runID int64) error {
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		statusCode = ghErr.Response.StatusCode
	}

	var code errors.ErrorCode
	switch {
	case statusCode == http.StatusNotFound:
		wrapped := errors.Wrap(ErrArtifactNotFound, errors.CodeNotFound, "workflow run not found")
		return errors.WithContext(wrapped, "run_id", runID)
	case statusCode == http.StatusUnauthorized:
		code = errors.CodeUnauthorized
	case statusCode == http.StatusForbidden:
		code = errors.CodeForbidden
	case statusCode == http.StatusTooManyRequests:
		code = errors.CodeRateLimit
	case statusCode >= 500:
		code = errors.CodeNetwork
	case statusCode != 0:
		code = errors.CodeInternal
	default:
		code = errors.CodeNetwork
	}

	return errors.Wrap(err, code, "failed to list run artifacts")
}
