package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	sentinel := New(CodeNotFound, "not found")
	wrapped := Wrap(sentinel, CodeFetchFailed, "download failed")

	// Should find sentinel in chain
	require.True(t, Is(wrapped, sentinel))

	// Should not match different error
	other := New(CodeInvalidInput, "invalid")
	require.False(t, Is(wrapped, other))
}

func TestIs_StandardLibraryCompatibility(t *testing.T) {
	stdErr := stderrors.New("standard sentinel")
	wrapped := Wrap(stdErr, CodeInternal, "internal error")

	// Should work with standard errors.Is
	require.True(t, stderrors.Is(wrapped, stdErr))
	require.True(t, Is(wrapped, stdErr))
}

func TestAs(t *testing.T) {
	err := New(CodeNotFound, "not found")

	var platformErr PlatformError
	require.True(t, As(err, &platformErr))
	require.Equal(t, CodeNotFound, platformErr.Code())
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil error", nil, CodeUnknown},
		{"platform error", New(CodeNotFound, "not found"), CodeNotFound},
		{"wrapped platform error", Wrap(New(CodeNotFound, "nf"), CodeFetchFailed, "fetch"), CodeFetchFailed},
		{"standard error", stderrors.New("plain"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	require.True(t, IsRetryable(New(CodeNetwork, "connection reset")))
	require.True(t, IsRetryable(New(CodeRateLimit, "rate limited")))
	require.False(t, IsRetryable(New(CodeNotFound, "not found")))
	require.False(t, IsRetryable(nil))
	require.False(t, IsRetryable(stderrors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := New(CodeFetchFailed, "download failed")
	err = WithContext(err, "repo", "octocat/Hello-World")
	err = WithContext(err, "artifact_id", 42)

	ctx := err.Context()
	require.Equal(t, "octocat/Hello-World", ctx["repo"])
	require.Equal(t, 42, ctx["artifact_id"])

	// Context maps are defensive copies
	ctx["repo"] = "mutated"
	require.Equal(t, "octocat/Hello-World", err.Context()["repo"])
}

func TestWithContext_StandardError(t *testing.T) {
	stdErr := stderrors.New("plain")
	err := WithContext(stdErr, "key", "value")

	require.Equal(t, CodeUnknown, err.Code())
	require.Equal(t, "value", err.Context()["key"])
	require.True(t, stderrors.Is(err, stdErr))
}
