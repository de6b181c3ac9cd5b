// Package errors provides structured error handling for the plot cache.
//
// This package extends Go's standard error handling with error codes,
// classification (retryable vs permanent), and context metadata. It maintains
// full compatibility with the standard library errors package (errors.Is,
// errors.As, errors.Unwrap).
//
// # Quick Start
//
// Creating errors:
//
//	// Simple error
//	err := errors.New(errors.CodeNotFound, "artifact not found")
//
//	// Formatted error
//	err := errors.Newf(errors.CodeInvalidInput, "invalid artifact id: %d", id)
//
// Wrapping errors:
//
//	path, err := fetcher.Fetch(ctx, loc, dest)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeFetchFailed, "failed to download artifact")
//	}
//
// Adding context:
//
//	err := errors.New(errors.CodeExtractFailed, "extraction failed")
//	err = errors.WithContext(err, "repo", "octocat/Hello-World")
//	err = errors.WithContext(err, "artifact_id", 42)
//
// Retry logic:
//
//	if errors.IsRetryable(err) {
//	    // Re-issue the request; the cache core never retries on its own.
//	}
package errors
