package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Exam session ──────────────────────────────────────────────────
	ErrNoActiveExam       ErrCode = "NO_ACTIVE_EXAM"
	ErrSessionInProgress  ErrCode = "SESSION_ALREADY_IN_PROGRESS"
	ErrSessionFinished    ErrCode = "SESSION_FINISHED"
	ErrSubmitFailed       ErrCode = "SUBMIT_FAILED"
	ErrCancelFailed       ErrCode = "CANCEL_FAILED"
	ErrPositionOutOfRange ErrCode = "POSITION_OUT_OF_RANGE"

	// ─── Backend collaboration ─────────────────────────────────────────
	ErrBackendUnavailable ErrCode = "BACKEND_UNAVAILABLE"
	ErrMalformedResponse  ErrCode = "MALFORMED_RESPONSE"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "Your session token is invalid or has expired. Please log in again."
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrNoActiveExam:
		return "No active exam found. Please start an exam from the dashboard."
	case ErrSessionInProgress:
		return "An exam session is already in progress."
	case ErrSessionFinished:
		return "This exam session has already finished."
	case ErrSubmitFailed:
		return "Failed to submit exam. Your answers are safe, please try again."
	case ErrCancelFailed:
		return "Failed to cancel the exam attempt. Please try again."
	case ErrPositionOutOfRange:
		return "The requested question position is out of range."
	case ErrBackendUnavailable:
		return "The examination server is unreachable. Please try again shortly."
	case ErrMalformedResponse:
		return "The examination server returned an unexpected response."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
