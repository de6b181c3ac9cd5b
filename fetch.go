package plotcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jmgilman/go/plotcache/errors"
)

// defaultFetchTimeout is applied to the built-in HTTP client when the
// caller does not supply one. Large artifacts stream for a while, so
// this bounds the whole transfer, not just the dial.
const defaultFetchTimeout = 10 * time.Minute

// Fetcher downloads artifact archives to local files. It streams the
// response body directly to disk so archive size is bounded by disk, not
// memory.
type Fetcher struct {
	client *http.Client
	token  string
}

// NewFetcher creates a fetcher. A nil client gets a default with a
// transfer timeout; an empty token sends unauthenticated requests.
func NewFetcher(client *http.Client, token string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}

	return &Fetcher{
		client: client,
		token:  token,
	}
}

// Fetch downloads url to dest, creating or truncating dest. On error the
// partial file is left in place; callers own the enclosing staging area
// and discard it wholesale.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "failed to build download request")
	}

	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeNetwork, "artifact download failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fetchStatusError(resp.StatusCode, url)
	}

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create archive file")
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return errors.Wrap(err, errors.CodeNetwork, "artifact download interrupted")
	}

	if err := out.Close(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to finalize archive file")
	}

	return nil
}

// fetchStatusError maps a non-OK download response onto the error
// taxonomy.
func fetchStatusError(statusCode int, url string) error {
	var code errors.ErrorCode
	var cause error

	switch {
	case statusCode == http.StatusNotFound || statusCode == http.StatusGone:
		// Expired artifacts are served as 410 by some deployments.
		code = errors.CodeNotFound
		cause = ErrArtifactNotFound
	case statusCode == http.StatusUnauthorized:
		code = errors.CodeUnauthorized
		cause = ErrFetchFailed
	case statusCode == http.StatusForbidden:
		code = errors.CodeForbidden
		cause = ErrFetchFailed
	case statusCode == http.StatusTooManyRequests:
		code = errors.CodeRateLimit
		cause = ErrFetchFailed
	case statusCode >= 500:
		code = errors.CodeNetwork
		cause = ErrFetchFailed
	default:
		code = errors.CodeFetchFailed
		cause = ErrFetchFailed
	}

	wrapped := errors.Wrap(
		fmt.Errorf("unexpected status %d: %w", statusCode, cause),
		code,
		"artifact download rejected",
	)
	return errors.WithContext(wrapped, "url", url)
}
