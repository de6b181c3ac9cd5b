// Package cache owns the on-disk artifact cache: key derivation, staging of
// in-progress build attempts, atomic publication of completed entries, and
// cleanup of failed attempts.
package cache

import (
	"fmt"
	"strings"
)

// Key uniquely identifies one artifact's extracted contents. It is derived
// deterministically from a repository identifier and an artifact reference,
// so the same (repo, ref) pair always maps to the same cache entry.
type Key string

// NewKey derives the cache key for a repository and artifact reference.
// Path separators in the repository identifier are replaced so the key is
// usable as a single directory name: "octocat/Hello-World" + 42 becomes
// "octocat_Hello-World_42". Distinct (repo, ref) pairs cannot collide: the
// ref suffix position is fixed and the only substituted character is "/".
func NewKey(repo string, ref int64) Key {
	return Key(fmt.Sprintf("%s_%d", strings.ReplaceAll(repo, "/", "_"), ref))
}

// String returns the key as a string.
func (k Key) String() string {
	return string(k)
}
