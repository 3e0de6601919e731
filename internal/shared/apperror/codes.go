package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeOverlapDetected  = "OVERLAP_DETECTED"
	CodeInvalidState     = "INVALID_STATE"
	CodeInvalidGeometry  = "INVALID_GEOMETRY"
	CodeValidationFailed = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// permanentCodes are rejections the caller must not retry.
var permanentCodes = map[string]bool{
	CodeInvalidInput:     true,
	CodeUnauthorized:     true,
	CodeForbidden:        true,
	CodeNotFound:         true,
	CodeOverlapDetected:  true,
	CodeInvalidState:     true,
	CodeInvalidGeometry:  true,
	CodeValidationFailed: true,
}

// IsPermanent reports whether err carries a non-retryable error code.
// Unknown errors count as transient.
func IsPermanent(err error) bool {
	if app := As(err); app != nil {
		return permanentCodes[app.Code]
	}
	return false
}
