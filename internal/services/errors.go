package services

import "errors"

// Failure kinds surfaced by the services. Handlers classify with errors.Is
// and map each kind to an HTTP status; anything unmatched is an internal
// error and must not leak storage details to the client.
var (
	// ErrValidation covers malformed requests rejected before any store
	// access.
	ErrValidation = errors.New("validation error")

	// ErrProductNotFound means a referenced product id does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock means the requested quantity exceeds available
	// stock, whether detected at the initial check or at decrement time.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidCredentials is returned for any failed login, without
	// revealing whether the username exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict means a uniqueness rule was violated (username or email
	// already registered).
	ErrConflict = errors.New("already exists")
)
