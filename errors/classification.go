package errors

// ErrorClassification indicates whether an error should trigger a retry.
// The cache core never retries on its own; callers use this to decide whether
// re-issuing a request is worthwhile.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	// Examples: network timeouts, rate limits, upstream unavailability.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	// Examples: validation errors, permission denials, resource not found.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	// Retryable errors (temporary failures)
	CodeTimeout:     ClassificationRetryable,
	CodeNetwork:     ClassificationRetryable,
	CodeRateLimit:   ClassificationRetryable,
	CodeUnavailable: ClassificationRetryable,

	// Permanent errors (will not succeed on retry)
	CodeNotFound:          ClassificationPermanent,
	CodeUnauthorized:      ClassificationPermanent,
	CodeForbidden:         ClassificationPermanent,
	CodeInvalidInput:      ClassificationPermanent,
	CodeInvalidConfig:     ClassificationPermanent,
	CodeSecurityViolation: ClassificationPermanent,

	// Build errors (permanent by default; a fetch that failed on a network
	// error carries CodeNetwork instead and is retryable through that code)
	CodeFetchFailed:   ClassificationPermanent,
	CodeExtractFailed: ClassificationPermanent,
	CodePublishFailed: ClassificationPermanent,

	// System errors
	CodeInternal: ClassificationPermanent,
	CodeUnknown:  ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationPermanent if the code is not in the map (safe default).
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
