// Package plotcache provides CI plot artifact caching functionality.
// This file contains the main client orchestrating builds and lookups.
package plotcache

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/jmgilman/go/plotcache/errors"
	"github.com/jmgilman/go/plotcache/internal/cache"
)

// Entry is a published cache entry: its on-disk location and the plot
// images it holds grouped by category.
type Entry struct {
	// Key identifies the entry; it is also the entry's directory name
	// under the plots root.
	Key string

	// Path is the absolute or root-relative directory of the entry.
	Path string

	// Categories maps category names to sorted image file names.
	Categories Categories
}

// Client resolves, downloads, extracts, and caches plot artifacts.
//
// A Client is safe for concurrent use. Builds for the same repository
// and reference are deduplicated in-process, and the publish step is a
// single directory rename, so concurrent processes sharing a plots root
// converge on one winner without coordination.
type Client struct {
	manager *cache.Manager
	locator Locator
	fetcher *Fetcher
	extract *ZipExtractor
	indexer *Indexer
	options *ClientOptions
	logger  *slog.Logger
	group   singleflight.Group
}

// New creates a client with the given options, creating the cache and
// plots directories if needed.
//
// Example:
//
//	client, err := plotcache.New(
//	    plotcache.WithToken(os.Getenv("GITHUB_TOKEN")),
//	    plotcache.WithPlotsDir("/var/lib/plots"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	entry, err := client.GetOrBuild(ctx, "octocat/Hello-World", 42)
func New(opts ...ClientOption) (*Client, error) {
	options := DefaultClientOptions()
	for _, opt := range opts {
		opt(options)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	manager, err := cache.NewManager(options.CacheDir, options.PlotsDir, cache.NewLogger(logger))
	if err != nil {
		return nil, err
	}

	locator := options.Locator
	if locator == nil {
		locator = NewDirectLocator("")
	}

	return &Client{
		manager: manager,
		locator: locator,
		fetcher: NewFetcher(options.HTTPClient, options.Token),
		extract: NewZipExtractor(),
		indexer: NewIndexer(options.ImageExts...),
		options: options,
		logger:  logger,
	}, nil
}

// GetOrBuild returns the cache entry for repo and ref, building it first
// if absent. Concurrent calls for the same pair share one build; the
// call is idempotent, so retrying after a failure is safe.
//
// The returned error unwraps to the build stage's failure: a missing
// artifact satisfies errors.Is(err, ErrArtifactNotFound), a hostile or
// unreadable archive ErrSecurityViolation or ErrArchiveCorrupted.
func (c *Client) GetOrBuild(ctx context.Context, repo string, ref int64) (*Entry, error) {
	if _, _, err := splitRepo(repo); err != nil {
		return nil, err
	}
	if ref <= 0 {
		err := errors.New(errors.CodeInvalidInput, "reference must be a positive integer")
		return nil, errors.WithContext(err, "reference", ref)
	}

	key := cache.NewKey(repo, ref)

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		return c.getOrBuild(ctx, key, repo, ref)
	})
	if err != nil {
		return nil, err
	}

	return v.(*Entry), nil
}

// Lookup returns the entry for repo and ref if it is published, without
// triggering a build. The boolean reports whether the entry exists.
func (c *Client) Lookup(ctx context.Context, repo string, ref int64) (*Entry, bool, error) {
	if _, _, err := splitRepo(repo); err != nil {
		return nil, false, err
	}

	key := cache.NewKey(repo, ref)
	path, ok := c.manager.Lookup(ctx, key)
	if !ok {
		return nil, false, nil
	}

	entry, err := c.entryAt(ctx, key, path)
	if err != nil {
		return nil, false, err
	}

	return entry, true, nil
}

// PlotsDir returns the publish root. Serving it over HTTP exposes only
// fully published entries.
func (c *Client) PlotsDir() string {
	return c.options.PlotsDir
}

// PlotPath returns the root-relative path of one image inside an entry.
// It does not check that the image exists.
func (c *Client) PlotPath(entry *Entry, category, image string) string {
	return filepath.Join(entry.Key, category, image)
}

func (c *Client) getOrBuild(ctx context.Context, key cache.Key, repo string, ref int64) (*Entry, error) {
	if path, ok := c.manager.Lookup(ctx, key); ok {
		return c.entryAt(ctx, key, path)
	}

	if c.options.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.BuildTimeout)
		defer cancel()
	}

	path, err := c.build(ctx, key, repo, ref)
	if err != nil {
		return nil, err
	}

	return c.entryAt(ctx, key, path)
}

// build runs one full attempt: resolve, fetch, extract, publish. Any
// failure aborts the attempt, which discards the archive and staging
// directory and leaves the key absent.
func (c *Client) build(ctx context.Context, key cache.Key, repo string, ref int64) (string, error) {
	location, err := c.locator.Resolve(ctx, repo, ref)
	if err != nil {
		return "", newBuildError("resolve", repo, ref, err)
	}

	attempt, err := c.manager.NewAttempt(ctx, key)
	if err != nil {
		return "", newBuildError("fetch", repo, ref, err)
	}

	if err := c.fetcher.Fetch(ctx, location.URL, attempt.ArchivePath()); err != nil {
		attempt.Abort(ctx)
		return "", newBuildError("fetch", repo, ref, err)
	}

	if err := c.extract.Extract(ctx, attempt.ArchivePath(), attempt.StagingDir()); err != nil {
		attempt.Abort(ctx)
		return "", newBuildError("extract", repo, ref, err)
	}

	path, err := attempt.Publish(ctx)
	if err != nil {
		return "", newBuildError("publish", repo, ref, err)
	}

	c.logger.InfoContext(ctx, "cache entry built",
		"repository", repo,
		"reference", ref,
		"path", path,
	)
	return path, nil
}

func (c *Client) entryAt(ctx context.Context, key cache.Key, path string) (*Entry, error) {
	categories, err := c.indexer.Index(ctx, path)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Key:        key.String(),
		Path:       path,
		Categories: categories,
	}, nil
}
