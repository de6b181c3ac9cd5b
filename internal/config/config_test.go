package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// An explicitly named but missing file is an error, so exercise the
	// search-path variant from an empty directory instead.
	require.Error(t, err)

	chdir(t, t.TempDir())
	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "cache", cfg.CacheDir)
	assert.Equal(t, "static/plots", cfg.PlotsDir)
	assert.Equal(t, StrategyDirect, cfg.Strategy)
	assert.Equal(t, 5*time.Minute, cfg.BuildTimeout)
	assert.Equal(t, []string{".png"}, cfg.ImageExts)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plotcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
plots_dir: /var/lib/plots
strategy: run-listing
build_timeout: 30s
image_exts: [".png", ".svg"]
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/var/lib/plots", cfg.PlotsDir)
	assert.Equal(t, StrategyRunListing, cfg.Strategy)
	assert.Equal(t, 30*time.Second, cfg.BuildTimeout)
	assert.Equal(t, []string{".png", ".svg"}, cfg.ImageExts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PLOTCACHE_ADDR", ":7070")
	t.Setenv("PLOTCACHE_TOKEN", "ghp_env")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "ghp_env", cfg.Token)
}

func TestLoad_GithubTokenFallback(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PLOTCACHE_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "ghp_fallback")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "ghp_fallback", cfg.Token)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad strategy", mutate: func(c *Config) { c.Strategy = "guess" }, wantErr: true},
		{name: "empty plots dir", mutate: func(c *Config) { c.PlotsDir = "" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.BuildTimeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Addr:     ":8080",
				CacheDir: "cache",
				PlotsDir: "plots",
				Strategy: StrategyDirect,
			}
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
