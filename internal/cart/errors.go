package cart

import (
	"errors"

	"github.com/noah-isme/backend-grocer/internal/common"
)

// ErrNotFound indicates the requested cart or product could not be located.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

func badRequest(field, message string) *common.AppError {
	return common.BadRequest(field, message, ErrInvalidInput)
}

func notFound(message string) *common.AppError {
	return common.NotFound(message, ErrNotFound)
}
