package common

import "errors"

var (
	// ErrInvalidArgument marks structurally invalid domain input such as a negative price.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingRequiredValue marks a required call argument that was not supplied.
	ErrMissingRequiredValue = errors.New("missing required value")
)

const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeMissingValue    = "MISSING_REQUIRED_VALUE"
)

// AppError represents an error with an attached code and a stable message.
type AppError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

// Error implements the error interface and returns the stable message.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

// Unwrap allows errors.Is/As to inspect the underlying error kind.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// InvalidArgument builds an ErrInvalidArgument carrying message verbatim.
func InvalidArgument(message string) error {
	return NewAppError(CodeInvalidArgument, message, ErrInvalidArgument)
}

// MissingValue builds an ErrMissingRequiredValue for the named argument.
func MissingValue(field string) error {
	return &AppError{Code: CodeMissingValue, Message: field + " is required", Field: field, Err: ErrMissingRequiredValue}
}

// CodeOf returns the AppError code wrapped in err, or "" when there is none.
func CodeOf(err error) string {
	var target *AppError
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}
