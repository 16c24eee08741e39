package errors

// Error code constants. Errors carry code + message; handlers map the code
// straight into the JSON error body.

// Specification loading error codes.
const (
	CodeSpecLoadFailed    = "SPEC_LOAD_FAILED"
	CodeSpecInvalid       = "SPEC_INVALID"
	CodeSpecTooLarge      = "SPEC_TOO_LARGE"
	CodeSpecUnsupported   = "SPEC_UNSUPPORTED_VERSION"
	CodeSpecURLUnreached  = "SPEC_URL_UNREACHABLE"
	CodeSpecBodyMissing   = "SPEC_BODY_MISSING"
	CodeSpecSourceInvalid = "SPEC_SOURCE_INVALID"
)

// Evaluation error codes.
const (
	CodeEvalFailed = "EVAL_FAILED"
)

// Rendering error codes.
const (
	CodeReportFormatInvalid = "REPORT_FORMAT_INVALID"
	CodeReportWriteFailed   = "REPORT_WRITE_FAILED"
)

// Validation error codes.
const (
	CodeInvalidRequestField = "INVALID_REQUEST_FIELD"
	CodeValidationFailed    = "VALIDATION_FAILED"
)
