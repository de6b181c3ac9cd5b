package plotcache

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmgilman/go/plotcache/errors"
)

// DefaultAPIBaseURL is the REST endpoint used by DirectLocator when no
// override is given.
const DefaultAPIBaseURL = "https://api.github.com"

// ArtifactLocation describes where an artifact archive can be downloaded.
type ArtifactLocation struct {
	// URL is the archive download endpoint. Fetching it requires the
	// same credential the locator strategy was configured with.
	URL string
}

// Locator resolves a repository and reference to an artifact download
// location. Implementations include DirectLocator (reference is an
// artifact ID, no network call) and RunListingLocator (reference is a
// workflow run ID, resolved via the API).
//
// All methods accept a context.Context as the first parameter for
// cancellation and timeout control.
type Locator interface {
	// Resolve returns the download location for the artifact identified
	// by repo ("owner/name") and ref. Returns ErrArtifactNotFound when
	// the reference does not correspond to any artifact.
	Resolve(ctx context.Context, repo string, ref int64) (ArtifactLocation, error)
}

// DirectLocator resolves references as artifact IDs by constructing the
// archive download URL directly. It performs no network calls; a stale
// or bogus ID only surfaces when the download itself fails.
type DirectLocator struct {
	baseURL string
}

// NewDirectLocator creates a locator that builds download URLs against
// the public GitHub API. Pass a non-empty baseURL to target a GitHub
// Enterprise instance or a test server.
func NewDirectLocator(baseURL string) *DirectLocator {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	return &DirectLocator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Resolve constructs the archive download URL for the artifact ID.
func (l *DirectLocator) Resolve(_ context.Context, repo string, ref int64) (ArtifactLocation, error) {
	return ArtifactLocation{
		URL: fmt.Sprintf("%s/repos/%s/actions/artifacts/%d/zip", l.baseURL, repo, ref),
	}, nil
}

// RunListingLocator resolves references as workflow run IDs. It lists
// the artifacts produced by the run and selects the first one in API
// order. Runs that produce multiple artifacts should be resolved with a
// DirectLocator instead.
type RunListingLocator struct {
	lister ArtifactLister
}

// NewRunListingLocator creates a locator backed by the given lister.
func NewRunListingLocator(lister ArtifactLister) (*RunListingLocator, error) {
	if lister == nil {
		return nil, errors.New(errors.CodeInvalidConfig, "artifact lister cannot be nil")
	}

	return &RunListingLocator{lister: lister}, nil
}

// Resolve lists the run's artifacts and returns the download location of
// the first one. Returns ErrArtifactNotFound if the run produced none.
func (l *RunListingLocator) Resolve(ctx context.Context, repo string, ref int64) (ArtifactLocation, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return ArtifactLocation{}, err
	}

	artifacts, err := l.lister.ListRunArtifacts(ctx, owner, name, ref)
	if err != nil {
		return ArtifactLocation{}, err
	}

	if len(artifacts) == 0 {
		return ArtifactLocation{}, fmt.Errorf("run %d in %s has no artifacts: %w", ref, repo, ErrArtifactNotFound)
	}

	return ArtifactLocation{URL: artifacts[0].ArchiveDownloadURL}, nil
}

// splitRepo splits an "owner/name" reference into its components.
func splitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		err := errors.New(errors.CodeInvalidInput, "repository must be in owner/name form")
		return "", "", errors.WithContext(err, "repository", repo)
	}

	return owner, name, nil
}
