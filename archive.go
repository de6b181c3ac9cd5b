// Package plotcache provides CI plot artifact caching functionality.
// This file contains zip archive extraction with security validation.
package plotcache

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmgilman/go/plotcache/errors"
	"github.com/jmgilman/go/plotcache/internal/validate"
)

// ZipExtractor expands artifact zip archives into a directory, rejecting
// entries that would escape it. Every entry path goes through traversal
// validation and a final resolve-within-root check before any write.
type ZipExtractor struct{}

// NewZipExtractor creates an extractor.
func NewZipExtractor() *ZipExtractor {
	return &ZipExtractor{}
}

// Extract expands the archive at archivePath into targetDir, creating
// targetDir if needed. An unreadable or empty archive returns
// ErrArchiveCorrupted; a hostile entry path returns ErrSecurityViolation
// and aborts the extraction. Partial output under targetDir is the
// caller's to discard.
func (e *ZipExtractor) Extract(ctx context.Context, archivePath, targetDir string) error {
	if targetDir == "" {
		return errors.New(errors.CodeInvalidInput, "target directory cannot be empty")
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		wrapped := fmt.Errorf("failed to open archive: %v: %w", err, ErrArchiveCorrupted)
		return errors.Wrap(wrapped, errors.CodeExtractFailed, "archive is not a readable zip")
	}
	defer func() { _ = reader.Close() }()

	// An artifact with nothing in it carries no plots and is
	// indistinguishable from a truncated upload. Treat it as corrupt
	// rather than publishing an empty entry.
	if len(reader.File) == 0 {
		return errors.Wrap(ErrArchiveCorrupted, errors.CodeExtractFailed, "archive contains no entries")
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create target directory")
	}

	pv := validate.NewPathValidator(targetDir)

	for _, file := range reader.File {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.CodeTimeout, "extraction cancelled")
		default:
		}

		if err := e.extractEntry(file, pv); err != nil {
			return err
		}
	}

	return nil
}

// extractEntry validates and writes a single archive entry.
func (e *ZipExtractor) extractEntry(file *zip.File, pv *validate.PathValidator) error {
	if err := pv.ValidateEntry(file.Name); err != nil {
		wrapped := fmt.Errorf("entry %q: %v: %w", file.Name, err, ErrSecurityViolation)
		return errors.Wrap(wrapped, errors.CodeSecurityViolation, "archive entry rejected")
	}

	dest, err := pv.ResolveWithin(file.Name)
	if err != nil {
		wrapped := fmt.Errorf("entry %q: %v: %w", file.Name, err, ErrSecurityViolation)
		return errors.Wrap(wrapped, errors.CodeSecurityViolation, "archive entry escapes target")
	}

	if file.FileInfo().IsDir() {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return errors.Wrap(err, errors.CodeExtractFailed, "failed to create directory entry")
		}
		return nil
	}

	// Zip archives may omit directory entries for intermediate paths.
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(err, errors.CodeExtractFailed, "failed to create parent directory")
	}

	src, err := file.Open()
	if err != nil {
		wrapped := fmt.Errorf("entry %q: %v: %w", file.Name, err, ErrArchiveCorrupted)
		return errors.Wrap(wrapped, errors.CodeExtractFailed, "failed to open archive entry")
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, errors.CodeExtractFailed, "failed to create output file")
	}

	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		wrapped := fmt.Errorf("entry %q: %v: %w", file.Name, err, ErrArchiveCorrupted)
		return errors.Wrap(wrapped, errors.CodeExtractFailed, "failed to decompress archive entry")
	}

	if err := out.Close(); err != nil {
		return errors.Wrap(err, errors.CodeExtractFailed, "failed to finalize output file")
	}

	return nil
}
