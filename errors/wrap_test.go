package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	cause := stderrors.New("original error")
	err := Wrap(cause, CodeFetchFailed, "download failed")

	require.NotNil(t, err)
	require.Equal(t, CodeFetchFailed, err.Code())
	require.Equal(t, "download failed", err.Message())
	require.Equal(t, cause, err.Unwrap())
}

func TestWrap_NilError(t *testing.T) {
	err := Wrap(nil, CodeNotFound, "test")
	require.Nil(t, err)
}

func TestWrap_PreservesClassification(t *testing.T) {
	// Create retryable error
	original := New(CodeTimeout, "timeout")
	require.True(t, original.Classification().IsRetryable())

	// Wrap with different code
	wrapped := Wrap(original, CodeFetchFailed, "download timed out")

	// Classification should be preserved from original
	require.True(t, wrapped.Classification().IsRetryable())
}

func TestWrap_StandardError(t *testing.T) {
	stdErr := stderrors.New("standard error")
	wrapped := Wrap(stdErr, CodeInternal, "internal error")

	// Should use default classification
	require.Equal(t, ClassificationPermanent, wrapped.Classification())
	require.Equal(t, stdErr, wrapped.Unwrap())
}

func TestWrap_PreservesClassification_Permanent(t *testing.T) {
	// Create permanent error
	original := New(CodeNotFound, "not found")
	require.False(t, original.Classification().IsRetryable())

	// Wrap with retryable code (but should preserve permanent)
	wrapped := Wrap(original, CodeTimeout, "timeout looking for artifact")

	// Classification should be preserved from original (permanent)
	require.False(t, wrapped.Classification().IsRetryable())
}

func TestWrapf(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrapf(cause, CodeNetwork, "failed to reach %s for run %d", "api.github.com", 42)

	require.Equal(t, "failed to reach api.github.com for run 42", err.Message())
	require.Equal(t, cause, err.Unwrap())
}

func TestWrapf_NilError(t *testing.T) {
	err := Wrapf(nil, CodeNotFound, "test %s", "arg")
	require.Nil(t, err)
}

func TestError_Format(t *testing.T) {
	plain := New(CodeExtractFailed, "extraction failed")
	require.Equal(t, "[EXTRACT_FAILED] extraction failed", plain.Error())

	cause := stderrors.New("unexpected EOF")
	wrapped := Wrap(cause, CodeExtractFailed, "extraction failed")
	require.Equal(t, "[EXTRACT_FAILED] extraction failed: unexpected EOF", wrapped.Error())
}
