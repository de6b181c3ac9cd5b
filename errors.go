// Package plotcache provides CI plot artifact caching functionality.
// This file contains domain-specific error types for build operations.
package plotcache

import (
	"errors"
	"fmt"
)

// Sentinel errors for different failure modes.
// They can be checked using errors.Is() for error handling and testing.
var (
	// ErrArtifactNotFound indicates that no artifact exists for the requested
	// repository and reference. This covers empty run listings, unknown
	// artifact IDs, and remote 404 responses.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrArchiveCorrupted indicates that the downloaded payload is not a
	// valid zip archive or contains no entries.
	ErrArchiveCorrupted = errors.New("archive corrupted or invalid")

	// ErrSecurityViolation indicates that an archive entry attempted to
	// escape the extraction root, or otherwise violated a security
	// constraint during extraction.
	ErrSecurityViolation = errors.New("security constraint violated")

	// ErrFetchFailed indicates the artifact download failed (non-2xx status,
	// connection failure, or timeout).
	ErrFetchFailed = errors.New("artifact download failed")
)

// BuildError provides context about a failed cache build. It records which
// step of the build failed and the (repo, ref) pair being built, and wraps
// the underlying error for errors.Is/errors.As checks.
//
// A BuildError is only returned after the failed attempt's temporary state
// has been cleaned up; the key it names is in the absent state.
type BuildError struct {
	// Op is the build step that failed: "resolve", "fetch", "extract",
	// or "publish".
	Op string

	// Repo is the repository identifier being built.
	Repo string

	// Ref is the artifact or run reference being built.
	Ref int64

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s %s/%d: %v", e.Op, e.Repo, e.Ref, e.Err)
}

// Unwrap returns the underlying error to support error wrapping.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the build failed because no artifact exists.
func (e *BuildError) IsNotFound() bool {
	return errors.Is(e.Err, ErrArtifactNotFound)
}

// newBuildError creates a BuildError for the given build step.
func newBuildError(op, repo string, ref int64, err error) *BuildError {
	return &BuildError{
		Op:   op,
		Repo: repo,
		Ref:  ref,
		Err:  err,
	}
}
