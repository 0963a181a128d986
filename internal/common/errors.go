package common

import "net/http"

// Error codes rendered in the error envelope.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeIdempotentReplay = "IDEMPOTENT_REPLAY"
	CodeRateLimited      = "RATE_LIMITED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeInternal         = "INTERNAL"
)

// AppError is an error that knows how it should be rendered to clients.
// Anything else reaching WriteError is reported as a generic 500.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BadRequest reports an invalid input field. err, when set, stays reachable
// through errors.Is.
func BadRequest(field, message string, err error) *AppError {
	var details any
	if field != "" {
		details = map[string]any{"field": field}
	}
	return &AppError{
		Code:       CodeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details:    details,
	}
}

func NotFound(message string, err error) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
		Err:        err,
	}
}
