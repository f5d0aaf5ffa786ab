package errors

import "fmt"

var (
	// Tokens
	ErrTokenExpired  = fmt.Errorf("session token has expired")
	ErrInvalidToken  = fmt.Errorf("session token is malformed")
	ErrTokenNotFound = fmt.Errorf("no session token stored")

	// Transport
	ErrTimeout      = fmt.Errorf("request timed out")
	ErrUnauthorized = fmt.Errorf("not authorized")
	ErrForbidden    = fmt.Errorf("access denied")

	// General
	ErrNotFound   = fmt.Errorf("record not found")
	ErrBadRequest = fmt.Errorf("bad request")
)

// HttpError carries the status code and the user-facing message extracted
// from an API error response. Message is what gets shown in alerts; Err
// keeps the underlying cause for logs.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Code)
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

// DisplayMessage picks the text an alert should show for any error coming
// out of the HTTP boundary.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	if httpErr, ok := err.(*HttpError); ok && httpErr.Message != "" {
		return httpErr.Message
	}
	return err.Error()
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
