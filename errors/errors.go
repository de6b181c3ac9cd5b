package errors

// PlatformError extends the standard error interface with the structure
// the build pipeline needs to act on a failure: a code identifying what
// went wrong (artifact missing, download rejected, archive hostile), a
// classification telling callers whether re-requesting the build can
// succeed, and optional metadata such as the repository or URL involved.
//
// PlatformError values interoperate with the standard library: they
// unwrap to their cause, so errors.Is against the package's sentinel
// errors and errors.As against concrete types work across the whole
// chain.
type PlatformError interface {
	error

	// Code returns the error code identifying the failure condition.
	Code() ErrorCode

	// Classification reports whether retrying the operation can succeed.
	Classification() ErrorClassification

	// Message returns the human-readable error message.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error for errors.Is and errors.As
	// compatibility. Returns nil if this error wraps nothing.
	Unwrap() error
}
