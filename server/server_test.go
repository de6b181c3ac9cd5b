package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/plotcache"
)

// newTestServer wires a server to an artifact endpoint serving the
// given zip payload with the given status.
func newTestServer(t *testing.T, payload []byte, status int) *Server {
	t.Helper()

	artifacts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(artifacts.Close)

	base := t.TempDir()
	client, err := plotcache.New(
		plotcache.WithCacheDir(filepath.Join(base, "cache")),
		plotcache.WithPlotsDir(filepath.Join(base, "plots")),
		plotcache.WithLocator(plotcache.NewDirectLocator(artifacts.URL)),
		plotcache.WithHTTPClient(artifacts.Client()),
	)
	require.NoError(t, err)

	srv, err := New(client)
	require.NoError(t, err)

	return srv
}

func plotZip(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"unit/latency.png":  "img",
		"unit/error.png":    "img",
		"bench/rate.png":    "img",
		"lint/warnings.txt": "text",
	} {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler().ServeHTTP(rec, req)

	return rec
}

func TestServer_Index(t *testing.T) {
	srv := newTestServer(t, nil, http.StatusOK)

	rec := get(t, srv, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<form")
}

func TestServer_ViewRendersGallery(t *testing.T) {
	srv := newTestServer(t, plotZip(t), http.StatusOK)

	rec := get(t, srv, "/view?repo=octocat/Hello-World&id=42")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "unit")
	assert.Contains(t, body, "bench")
	assert.Contains(t, body, "/plots/octocat_Hello-World_42/unit/latency.png")
	assert.NotContains(t, body, "warnings.txt")
}

func TestServer_ViewServesPlotImage(t *testing.T) {
	srv := newTestServer(t, plotZip(t), http.StatusOK)

	// Build the entry, then hit the static route.
	require.Equal(t, http.StatusOK, get(t, srv, "/view?repo=octocat/Hello-World&id=42").Code)

	rec := get(t, srv, "/plots/octocat_Hello-World_42/unit/latency.png")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "img", rec.Body.String())
}

func TestServer_ViewMissingParams(t *testing.T) {
	srv := newTestServer(t, nil, http.StatusOK)

	tests := []struct {
		name string
		path string
	}{
		{name: "no params", path: "/view"},
		{name: "bad repo", path: "/view?repo=octocat&id=42"},
		{name: "non-numeric id", path: "/view?repo=octocat/Hello-World&id=abc"},
		{name: "zero id", path: "/view?repo=octocat/Hello-World&id=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.path)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_ViewArtifactNotFound(t *testing.T) {
	srv := newTestServer(t, nil, http.StatusNotFound)

	rec := get(t, srv, "/view?repo=octocat/Hello-World&id=42")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no plots available")
}

func TestServer_ViewCorruptArtifact(t *testing.T) {
	// A build failure is indistinguishable from missing plots to the
	// viewer, so a corrupt download renders as not found.
	srv := newTestServer(t, []byte("not a zip"), http.StatusOK)

	rec := get(t, srv, "/view?repo=octocat/Hello-World&id=42")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ViewRemoteFailure(t *testing.T) {
	srv := newTestServer(t, nil, http.StatusBadGateway)

	rec := get(t, srv, "/view?repo=octocat/Hello-World&id=42")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ViewNoImages(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entry, err := w.Create("lint/report.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte("text"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	srv := newTestServer(t, buf.Bytes(), http.StatusOK)

	rec := get(t, srv, "/view?repo=octocat/Hello-World&id=42")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Checks(t *testing.T) {
	srv := newTestServer(t, nil, http.StatusOK)

	rec := get(t, srv, "/checks?repo=octocat/Hello-World&run=7")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Checks []struct {
			Name   string `json:"name"`
			Status bool   `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Checks, 2)
	assert.Equal(t, "Check 1", resp.Checks[0].Name)
	assert.True(t, resp.Checks[0].Status)
	assert.Equal(t, "Check 2", resp.Checks[1].Name)
	assert.True(t, resp.Checks[1].Status)
}

func TestServer_ChecksBadParams(t *testing.T) {
	srv := newTestServer(t, nil, http.StatusOK)

	tests := []struct {
		name string
		path string
	}{
		{name: "no params", path: "/checks"},
		{name: "missing run", path: "/checks?repo=octocat/Hello-World"},
		{name: "non-numeric run", path: "/checks?repo=octocat/Hello-World&run=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.path)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_NilClient(t *testing.T) {
	_, err := New(nil)

	require.Error(t, err)
}
