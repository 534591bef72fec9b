package apperrors

import "errors"

// Common errors
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrNotOwner = errors.New("not authorized or note not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidYear      = errors.New("invalid academic year")
	ErrInvalidSubject   = errors.New("invalid subject")
	ErrInvalidRating    = errors.New("rating 1-5 required")

	// Upload errors
	ErrFileRequired        = errors.New("PDF file is required")
	ErrUnsupportedFileType = errors.New("only PDF allowed")
	ErrFileTooLarge        = errors.New("file size exceeds the configured limit")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")

	// Note errors
	ErrNoteNotFound = errors.New("note not found")
)

// CustomError carries an underlying sentinel plus request-specific context.
type CustomError struct {
	Err     error
	Message string
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

// NewValidationError wraps ErrValidationFailed with a field-specific message.
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}
