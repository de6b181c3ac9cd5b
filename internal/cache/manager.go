package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jmgilman/go/plotcache/errors"
)

// Manager owns the cache directory layout. It separates a private working
// area (temporary archives and staging directories for in-progress builds)
// from the publish root where completed entries become visible to readers.
//
// An entry's lifecycle is: absent -> staged (private to one Attempt) ->
// published (immutable, shared). The only way an entry becomes visible under
// the publish root is the atomic rename in Attempt.Publish, so readers never
// observe partial content. There is no deletion path: published entries
// persist indefinitely.
type Manager struct {
	workRoot    string
	publishRoot string
	logger      *Logger
}

// NewManager creates a manager using workRoot for temporary build state and
// publishRoot for completed entries. Both directories are created if needed.
func NewManager(workRoot, publishRoot string, logger *Logger) (*Manager, error) {
	if workRoot == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "cache work root cannot be empty")
	}
	if publishRoot == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "cache publish root cannot be empty")
	}
	if logger == nil {
		logger = NewNopLogger()
	}

	if err := os.MkdirAll(workRoot, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create cache work root")
	}
	if err := os.MkdirAll(publishRoot, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create cache publish root")
	}

	return &Manager{
		workRoot:    workRoot,
		publishRoot: publishRoot,
		logger:      logger,
	}, nil
}

// EntryPath returns the path an entry for key occupies once published,
// whether or not it exists yet.
func (m *Manager) EntryPath(key Key) string {
	return filepath.Join(m.publishRoot, key.String())
}

// Lookup reports whether a published entry exists for key, returning its
// path on a hit. Published entries are immutable, so no re-validation of
// contents happens here.
func (m *Manager) Lookup(ctx context.Context, key Key) (string, bool) {
	path := m.EntryPath(key)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", false
	}
	m.logger.Debug(ctx, "cache hit", "key", key.String(), "path", path)
	return path, true
}

// NewAttempt allocates private working state for one build attempt: a path
// for the downloaded archive and an empty staging directory for extraction.
// The paths carry a random suffix so concurrent attempts for the same key
// never write to each other's files; the publish rename is the only point
// where attempts for one key meet.
func (m *Manager) NewAttempt(ctx context.Context, key Key) (*Attempt, error) {
	suffix := uuid.NewString()
	stagingDir := filepath.Join(m.workRoot, fmt.Sprintf("%s.%s.staging", key, suffix))
	archivePath := filepath.Join(m.workRoot, fmt.Sprintf("%s.%s.zip", key, suffix))

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create staging directory")
	}

	m.logger.Debug(ctx, "build attempt started",
		"key", key.String(), "staging", stagingDir)

	return &Attempt{
		manager:     m,
		key:         key,
		archivePath: archivePath,
		stagingDir:  stagingDir,
	}, nil
}

// Attempt is the private working state of a single build for one key.
// Exactly one of Publish or Abort must be called; both are idempotent and
// both leave no temporary state behind.
type Attempt struct {
	manager     *Manager
	key         Key
	archivePath string
	stagingDir  string
	finished    bool
}

// ArchivePath returns the path the downloaded archive should be written to.
func (a *Attempt) ArchivePath() string {
	return a.archivePath
}

// StagingDir returns the directory the archive should be extracted into.
func (a *Attempt) StagingDir() string {
	return a.stagingDir
}

// Publish atomically moves the staging directory to the published path for
// the attempt's key and removes the temporary archive. This is the commit
// point: before the rename the entry is invisible, after it the entry is
// complete.
//
// If another attempt for the same key published first, the rename fails with
// the destination present; this attempt then discards its own staging output
// and returns the already-published path. Both outputs derive from the same
// remote artifact, so the winner's entry is equivalent.
func (a *Attempt) Publish(ctx context.Context) (string, error) {
	published := a.manager.EntryPath(a.key)

	if err := os.Rename(a.stagingDir, published); err != nil {
		if _, statErr := os.Stat(published); statErr == nil {
			a.manager.logger.Debug(ctx, "lost publish race, using existing entry",
				"key", a.key.String(), "path", published)
			a.Abort(ctx)
			return published, nil
		}
		a.Abort(ctx)
		return "", errors.Wrap(err, errors.CodePublishFailed, "failed to publish cache entry")
	}

	a.finished = true
	if err := os.Remove(a.archivePath); err != nil && !os.IsNotExist(err) {
		// The entry is already live; a leftover archive in the work area is
		// harmless, so log and carry on.
		a.manager.logger.Warn(ctx, "failed to remove temporary archive",
			"key", a.key.String(), "path", a.archivePath, "error", err)
	}

	a.manager.logger.Info(ctx, "cache entry published",
		"key", a.key.String(), "path", published)
	return published, nil
}

// Abort removes the attempt's temporary archive and staging directory.
// It is the single cleanup path for failure and cancellation alike, and
// guarantees that a failed attempt leaves the key in the absent state.
func (a *Attempt) Abort(ctx context.Context) {
	if a.finished {
		return
	}
	a.finished = true

	if err := os.Remove(a.archivePath); err != nil && !os.IsNotExist(err) {
		a.manager.logger.Warn(ctx, "failed to remove temporary archive",
			"key", a.key.String(), "path", a.archivePath, "error", err)
	}
	if err := os.RemoveAll(a.stagingDir); err != nil {
		a.manager.logger.Warn(ctx, "failed to remove staging directory",
			"key", a.key.String(), "path", a.stagingDir, "error", err)
	}
}
