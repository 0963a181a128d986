package shopping

import (
	"errors"
	"fmt"

	"github.com/noah-isme/backend-grocer/internal/common"
)

var (
	// ErrInvalidRequest marks shopping-results requests rejected before any data access.
	ErrInvalidRequest = errors.New("invalid shopping request")
	// ErrRadiusWithoutLocation is returned when a radius is given without a user location.
	ErrRadiusWithoutLocation = fmt.Errorf("radius requires user_location: %w", ErrInvalidRequest)
	// ErrNotFound is returned when the cart does not exist or belongs to another user.
	ErrNotFound = errors.New("cart not found")
)

func badRequest(field, message string, err error) *common.AppError {
	if err == nil {
		err = ErrInvalidRequest
	} else if !errors.Is(err, ErrInvalidRequest) {
		err = fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return common.BadRequest(field, message, err)
}

func notFound() *common.AppError {
	return common.NotFound("cart not found", ErrNotFound)
}
