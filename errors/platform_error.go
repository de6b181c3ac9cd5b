package errors

import "fmt"

// platformError is the single concrete PlatformError implementation.
// It is unexported so every error in the build pipeline is constructed
// through New, Wrap, or WithContext and always carries a code and a
// classification.
type platformError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]interface{}
	cause          error
}

// Error renders as "[CODE] message", appending ": cause" when the error
// wraps another. A failed download chain therefore reads as
// "[FETCH_FAILED] artifact download rejected: unexpected status 403".
func (e *platformError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code returns the error code.
func (e *platformError) Code() ErrorCode {
	return e.code
}

// Classification returns the error classification.
func (e *platformError) Classification() ErrorClassification {
	return e.classification
}

// Message returns the error message without code or cause.
func (e *platformError) Message() string {
	return e.message
}

// Context returns a copy of the metadata map, so callers cannot mutate
// an error after construction. Returns nil when nothing was attached.
func (e *platformError) Context() map[string]interface{} {
	if e.context == nil {
		return nil
	}
	ctx := make(map[string]interface{}, len(e.context))
	for k, v := range e.context {
		ctx[k] = v
	}
	return ctx
}

// Unwrap returns the wrapped cause.
func (e *platformError) Unwrap() error {
	return e.cause
}
