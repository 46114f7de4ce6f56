package services

import (
	"errors"

	"storefront/internal/repositories"
)

// Sentinel errors the handler layer maps onto the response envelope.
var (
	ErrNotFound           = repositories.ErrNotFound
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("email or password is not correct")
	ErrInvalidLink        = errors.New("invalid link")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidToken       = errors.New("invalid token")
)
