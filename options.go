// Package plotcache provides CI plot artifact caching functionality.
// This file contains functional options for client configuration.
package plotcache

import (
	"log/slog"
	"net/http"
	"time"
)

// Default directory layout, matching the serving convention of
// `<plots dir>/<key>/<category>/<image files>`.
const (
	// DefaultCacheDir is the default working directory for temporary
	// archives and staging directories.
	DefaultCacheDir = "cache"

	// DefaultPlotsDir is the default publish root for completed entries.
	DefaultPlotsDir = "static/plots"

	// DefaultBuildTimeout bounds a single build attempt (resolve, fetch,
	// and extract combined) so a stalled remote cannot pin a worker.
	DefaultBuildTimeout = 5 * time.Minute

	// DefaultImageExt is the file extension indexed into categories.
	DefaultImageExt = ".png"
)

// ClientOptions contains configuration options for the Client.
type ClientOptions struct {
	// CacheDir is the private working area for in-progress builds.
	CacheDir string

	// PlotsDir is the publish root; published entries under it are safe
	// to expose through a static file server.
	PlotsDir string

	// Token is the bearer credential for artifact downloads. An empty
	// token is not an error: public artifacts need none, and a private
	// one will surface an authorization failure from the remote side.
	Token string

	// HTTPClient performs artifact downloads. If nil, a client with a
	// sane timeout is used.
	HTTPClient *http.Client

	// Locator resolves artifact download locations. If nil, the direct
	// by-artifact-ID strategy against the public GitHub API is used.
	Locator Locator

	// ImageExts are the file extensions (lowercase, with leading dot)
	// recognized as plot images when indexing. Matching is
	// case-insensitive. Defaults to [".png"].
	ImageExts []string

	// BuildTimeout bounds one build attempt end to end.
	BuildTimeout time.Duration

	// Logger receives structured build and cache events. If nil, logging
	// is disabled.
	Logger *slog.Logger
}

// DefaultClientOptions returns the default client configuration.
func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		CacheDir:     DefaultCacheDir,
		PlotsDir:     DefaultPlotsDir,
		ImageExts:    []string{DefaultImageExt},
		BuildTimeout: DefaultBuildTimeout,
	}
}

// ClientOption configures a Client.
type ClientOption func(*ClientOptions)

// WithCacheDir sets the private working directory for builds.
func WithCacheDir(dir string) ClientOption {
	return func(o *ClientOptions) {
		o.CacheDir = dir
	}
}

// WithPlotsDir sets the publish root for completed entries.
func WithPlotsDir(dir string) ClientOption {
	return func(o *ClientOptions) {
		o.PlotsDir = dir
	}
}

// WithToken sets the bearer credential used for artifact downloads.
func WithToken(token string) ClientOption {
	return func(o *ClientOptions) {
		o.Token = token
	}
}

// WithHTTPClient sets a custom HTTP client for artifact downloads.
// This allows full control over transport configuration and timeouts.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *ClientOptions) {
		o.HTTPClient = client
	}
}

// WithLocator selects the artifact location strategy. Use a DirectLocator
// to construct download URLs without a metadata call, or a
// RunListingLocator to pick the first artifact of a workflow run.
func WithLocator(locator Locator) ClientOption {
	return func(o *ClientOptions) {
		o.Locator = locator
	}
}

// WithImageExtensions sets the file extensions recognized as plot images.
func WithImageExtensions(exts ...string) ClientOption {
	return func(o *ClientOptions) {
		o.ImageExts = exts
	}
}

// WithBuildTimeout bounds a single build attempt.
func WithBuildTimeout(d time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.BuildTimeout = d
	}
}

// WithLogger enables structured logging of build and cache events.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(o *ClientOptions) {
		o.Logger = logger
	}
}
