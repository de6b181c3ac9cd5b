// Package validate provides path validation for archive extraction.
// It contains the security checks that keep untrusted artifact archives from
// writing outside their staging directory.
package validate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathValidator validates archive entry paths to prevent security vulnerabilities.
// It detects and rejects various forms of path traversal attacks and other
// problematic path patterns that could compromise extraction safety.
type PathValidator struct {
	// RootPath is the extraction root directory. When set, ResolveWithin
	// can be used to compute the final on-disk path for an entry.
	RootPath string
}

// NewPathValidator creates a PathValidator rooted at the given extraction directory.
func NewPathValidator(root string) *PathValidator {
	return &PathValidator{RootPath: root}
}

// ValidateEntry validates an archive entry path for security issues.
// It checks for path traversal attempts, absolute paths, and problematic
// characters. Returns nil if the path is safe, or an error describing the
// violation.
func (v *PathValidator) ValidateEntry(path string) error {
	if path == "" || strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty entry path")
	}

	if v.isAbsolutePath(path) {
		return fmt.Errorf("absolute path not allowed: %s", path)
	}

	if err := v.detectPathTraversal(path); err != nil {
		return err
	}

	return v.detectProblematicCharacters(path)
}

// ResolveWithin joins an already-validated entry path onto the root directory
// and confirms the result still lies within it. This is the final gate before
// any filesystem write: even a path that passed ValidateEntry is re-checked
// after joining and cleaning.
func (v *PathValidator) ResolveWithin(entry string) (string, error) {
	rootAbs, err := filepath.Abs(v.RootPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve extraction root: %w", err)
	}

	full := filepath.Join(rootAbs, filepath.FromSlash(entry))
	full = filepath.Clean(full)

	if full != rootAbs && !strings.HasPrefix(full, rootAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("entry escapes extraction root: %s", entry)
	}

	return full, nil
}

// detectPathTraversal detects various forms of path traversal attacks:
// direct .. components, encoded variants (..%2f etc.), and cleaned paths
// that resolve above the root.
func (v *PathValidator) detectPathTraversal(path string) error {
	if v.hasEncodedTraversal(path) {
		return fmt.Errorf("encoded path traversal detected: %s", path)
	}

	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: %s", path)
	}

	if v.containsDotDotComponent(path) {
		return fmt.Errorf("path traversal detected: %s", path)
	}

	return nil
}

// hasEncodedTraversal checks for URL-encoded path traversal attempts.
func (v *PathValidator) hasEncodedTraversal(path string) bool {
	lowerPath := strings.ToLower(path)

	encodedVariants := []string{
		"..%2f", "..%5c", // encoded / and \
		"%2e%2e%2f", "%2e%2e%5c", // fully encoded ../ and ..\
		"%2e%2e/", "%2e%2e\\", // encoded dots with literal separator
		"..%c0%af", "..%c1%9c", // overlong UTF-8 encoded / and \
	}

	for _, variant := range encodedVariants {
		if strings.Contains(lowerPath, variant) {
			return true
		}
	}

	return false
}

// containsDotDotComponent checks for .. components under both separator styles.
func (v *PathValidator) containsDotDotComponent(path string) bool {
	if !strings.Contains(path, "..") {
		return false
	}
	for _, sep := range []string{"/", "\\"} {
		for _, part := range strings.Split(path, sep) {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// detectProblematicCharacters rejects NUL bytes and control characters that
// could confuse downstream filesystem or display layers.
func (v *PathValidator) detectProblematicCharacters(path string) error {
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("NUL byte detected in path: %s", path)
	}

	for _, r := range path {
		if r < 32 || r == 127 {
			return fmt.Errorf("control character detected in path: %s (U+%04X)", path, r)
		}
	}

	return nil
}

// isAbsolutePath checks for absolute paths on all platforms including Windows
// drive letters and UNC paths, since archives may have been produced anywhere.
func (v *PathValidator) isAbsolutePath(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}

	// Windows drive letters (C:\, D:/, ...)
	if len(path) >= 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/') {
		drive := path[0]
		if (drive >= 'A' && drive <= 'Z') || (drive >= 'a' && drive <= 'z') {
			return true
		}
	}

	// UNC paths (\\server\share)
	return strings.HasPrefix(path, "\\\\")
}
