package errors

import "fmt"

// ErrorCode represents a logfile error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrInvalidKind    ErrorCode = "INVALID_KIND"    // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrTooManyLogs    ErrorCode = "TOO_MANY_LOGS"   // 429
	ErrCancelled      ErrorCode = "CANCELLED"       // 499
	ErrClockSkew      ErrorCode = "CLOCK_SKEW"      // 500
	ErrSinkFailure    ErrorCode = "SINK_FAILURE"    // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// LogError represents a structured error with code, status, and details.
type LogError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *LogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *LogError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LogError {
	return &LogError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidKind creates a 400 error for an unrecognized structured entry tag.
func NewInvalidKind(kind string) *LogError {
	return &LogError{
		Code:    ErrInvalidKind,
		Status:  400,
		Message: fmt.Sprintf("invalid entry kind: %q", kind),
		Details: map[string]any{"kind": kind},
	}
}

// NewNotFound creates a 404 error for an unknown log session.
func NewNotFound(id string) *LogError {
	return &LogError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("log not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewTooManyLogs creates a 429 error when the session registry is full.
func NewTooManyLogs(max int) *LogError {
	return &LogError{
		Code:    ErrTooManyLogs,
		Status:  429,
		Message: fmt.Sprintf("too many open logs (max %d); close one first", max),
		Details: map[string]any{"max_sessions": max},
	}
}

// NewCancelled creates a 499 error when an operation is interrupted by its context.
func NewCancelled(op string) *LogError {
	return &LogError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewClockSkew creates a 500 error for an entry captured before its log started.
func NewClockSkew(skew fmt.Stringer) *LogError {
	return &LogError{
		Code:    ErrClockSkew,
		Status:  500,
		Message: fmt.Sprintf("entry captured %s before log start", skew),
		Details: map[string]any{"skew": skew.String()},
	}
}

// NewSinkFailure creates a 500 error when the log file cannot be written.
func NewSinkFailure(path string, err error) *LogError {
	msg := fmt.Sprintf("unable to write file %s", path)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &LogError{
		Code:    ErrSinkFailure,
		Status:  500,
		Message: msg,
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *LogError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &LogError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is a LogError with the given code.
func Is(err error, code ErrorCode) bool {
	if lErr, ok := err.(*LogError); ok {
		return lErr.Code == code
	}
	return false
}
