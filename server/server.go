// Package server exposes cached CI plots over HTTP.
//
// The server renders a small browsing UI: a form for entering a
// repository and artifact reference, a plot gallery per cache entry, and
// static serving of the published plot images. Only published entries
// are ever reachable through the static route, so in-progress builds
// cannot leak partial content.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmgilman/go/plotcache"
	pcerrors "github.com/jmgilman/go/plotcache/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Server serves the plot browsing UI backed by a plotcache client.
type Server struct {
	engine *gin.Engine
	client *plotcache.Client
	logger *slog.Logger
	addr   string

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the logger for request handling events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server for the given client.
func New(client *plotcache.Client, opts ...Option) (*Server, error) {
	if client == nil {
		return nil, pcerrors.New(pcerrors.CodeInvalidConfig, "client cannot be nil")
	}

	s := &Server{
		client: client,
		addr:   DefaultAddr,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, pcerrors.Wrap(err, pcerrors.CodeInternal, "failed to parse templates")
	}
	engine.SetHTMLTemplate(tmpl)

	s.engine = engine
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/view", s.handleView)
	s.engine.GET("/checks", s.handleChecks)
	s.engine.Static("/plots", s.client.PlotsDir())
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server and blocks until ctx is cancelled or the
// listener fails, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "http server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return pcerrors.Wrap(err, pcerrors.CodeUnavailable, "http server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return pcerrors.Wrap(err, pcerrors.CodeUnavailable, "http server shutdown failed")
	}

	s.logger.Info("http server stopped")
	return nil
}

// handleIndex renders the lookup form.
func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// viewParams are the query parameters of the /view route.
type viewParams struct {
	Repo string `form:"repo"`
	ID   int64  `form:"id"`
}

// handleView builds (or fetches from cache) the entry for the requested
// repository and artifact, then renders its plot gallery.
func (s *Server) handleView(c *gin.Context) {
	var params viewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		s.renderError(c, http.StatusBadRequest, "repo and id query parameters are required")
		return
	}

	entry, err := s.client.GetOrBuild(c.Request.Context(), params.Repo, params.ID)
	if err != nil {
		s.logger.WarnContext(c.Request.Context(), "plot lookup failed",
			"repository", params.Repo,
			"reference", params.ID,
			"error", err,
		)
		s.renderBuildError(c, params, err)
		return
	}

	if len(entry.Categories) == 0 {
		s.renderError(c, http.StatusNotFound, "artifact contains no plot images")
		return
	}

	c.HTML(http.StatusOK, "plots.html", gin.H{
		"Repo":       params.Repo,
		"ID":         params.ID,
		"Key":        entry.Key,
		"Categories": entry.Categories,
	})
}

// renderBuildError maps a failed lookup onto an HTTP status and renders
// the error page. Malformed input is a bad request; every build failure
// (missing artifact, fetch, extract, publish) renders as not found, since
// from the viewer's perspective the plots do not exist. Internal server
// errors are reserved for failures outside the build pipeline.
func (s *Server) renderBuildError(c *gin.Context, params viewParams, err error) {
	if pcerrors.GetCode(err) == pcerrors.CodeInvalidInput {
		s.renderError(c, http.StatusBadRequest, "repo must be owner/name and id a positive integer")
		return
	}

	var buildErr *plotcache.BuildError
	if errors.As(err, &buildErr) {
		s.renderError(c, http.StatusNotFound, "no plots available for "+params.Repo)
		return
	}

	s.renderError(c, http.StatusInternalServerError, "failed to prepare plots for "+params.Repo)
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
}

// checkResult is one status line of the /checks response.
type checkResult struct {
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

// handleChecks reports the pipeline checks for a workflow run. The
// check list is a static placeholder until result ingestion lands.
func (s *Server) handleChecks(c *gin.Context) {
	repo := c.Query("repo")
	runStr := c.Query("run")
	if repo == "" || runStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repo and run query parameters are required"})
		return
	}
	if _, err := strconv.ParseInt(runStr, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run must be an integer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checks": []checkResult{
			{Name: "Check 1", Status: true},
			{Name: "Check 2", Status: true},
		},
	})
}
