package plotcache

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmgilman/go/plotcache/errors"
)

// Categories maps a category name (an immediate subdirectory of a cache
// entry) to its image file names in lexicographic order. Categories with
// no images are omitted.
type Categories map[string][]string

// Indexer scans published cache entries for plot images grouped by
// category.
type Indexer struct {
	exts map[string]struct{}
}

// NewIndexer creates an indexer recognizing the given file extensions
// (with leading dot). Matching is case-insensitive. With no extensions,
// only ".png" files are indexed.
func NewIndexer(exts ...string) *Indexer {
	if len(exts) == 0 {
		exts = []string{DefaultImageExt}
	}

	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}

	return &Indexer{exts: set}
}

// Index scans entryPath's immediate subdirectories for image files. A
// missing entryPath yields an empty index, not an error; a present but
// unreadable one fails. Files at the top level of entryPath and nested
// more than one directory deep are ignored.
func (ix *Indexer) Index(ctx context.Context, entryPath string) (Categories, error) {
	entries, err := os.ReadDir(entryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Categories{}, nil
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read cache entry")
	}

	result := Categories{}
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.CodeTimeout, "indexing cancelled")
		default:
		}

		if !entry.IsDir() {
			continue
		}

		images, err := ix.scanCategory(filepath.Join(entryPath, entry.Name()))
		if err != nil {
			return nil, err
		}

		if len(images) > 0 {
			result[entry.Name()] = images
		}
	}

	return result, nil
}

// scanCategory returns the sorted image file names directly inside dir.
func (ix *Indexer) scanCategory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read category directory")
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := ix.exts[ext]; ok {
			images = append(images, entry.Name())
		}
	}

	sort.Strings(images)
	return images, nil
}
