package model

import "fmt"

// ErrorWithStatusCode pairs a relay failure with the HTTP status the
// boundary should return. The router maps it onto the standard error
// envelope {error:true, message, status}.
type ErrorWithStatusCode struct {
	StatusCode int
	Message    string
}

func (e *ErrorWithStatusCode) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// NewError builds an ErrorWithStatusCode with a formatted message.
func NewError(statusCode int, format string, args ...any) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{
		StatusCode: statusCode,
		Message:    fmt.Sprintf(format, args...),
	}
}
