package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Class lifecycle ───────────────────────────────────────────────
	ErrNotClassOwner    ErrCode = "NOT_CLASS_OWNER"
	ErrClassNotEditable ErrCode = "CLASS_NOT_EDITABLE"
	ErrClassNotLive     ErrCode = "CLASS_NOT_LIVE"
	ErrClassNotBookable ErrCode = "CLASS_NOT_BOOKABLE"
	ErrClassFull        ErrCode = "CLASS_FULL"
	ErrAlreadyEnrolled  ErrCode = "ALREADY_ENROLLED"
	ErrNotEnrolled      ErrCode = "NOT_ENROLLED"
	ErrMeetingClosed    ErrCode = "MEETING_NOT_OPEN"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	case ErrNotClassOwner:
		return "You are not the teacher of this class."
	case ErrClassNotEditable:
		return "Only scheduled classes can be changed."
	case ErrClassNotLive:
		return "This class is not currently live."
	case ErrClassNotBookable:
		return "This class is not open for enrollment."
	case ErrClassFull:
		return "This class has no free seats left."
	case ErrAlreadyEnrolled:
		return "You are already enrolled in this class."
	case ErrNotEnrolled:
		return "You are not enrolled in this class."
	case ErrMeetingClosed:
		return "The meeting room for this class is not open."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
