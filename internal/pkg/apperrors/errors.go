package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenMissing = errors.New("token missing")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Collaborator errors. A failed call to the database, object storage or
	// the realtime channel where the request itself was well-formed.
	ErrTransientIO = errors.New("transient io failure")
)

// Challenge errors
var (
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrSlugAlreadyExists  = errors.New("challenge slug already exists")
	ErrChallengeNotActive = errors.New("challenge not active")
)

// Membership errors
var (
	ErrMembershipNotFound = errors.New("membership not found")
	ErrAlreadyJoined      = errors.New("already joined this challenge")
	ErrNotAMember         = errors.New("not a member of this challenge")
)

// Entry errors
var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrEntryNotFound    = errors.New("entry not found")
)

// User and comment errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewTransientIOError wraps a collaborator failure. The caller decides
// whether to retry; no retry happens inside the engine.
func NewTransientIOError(err error, message string) error {
	return &CustomError{
		Err:     errors.Join(ErrTransientIO, err),
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
