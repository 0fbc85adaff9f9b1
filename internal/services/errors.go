// Package services defines the business logic for recipes, products, and
// supermarket search. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked by
// callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrValidation is wrapped by every *ValidationError. Handlers match it
	// with errors.Is and then unpack the field errors with errors.As.
	ErrValidation = errors.New("validation failed")

	// ErrRecipeNotFound indicates that the requested recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrProductNotFound indicates that no product exists for the given
	// (supermarket, id) pair.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductExists is returned when creating a product whose composite
	// key is already taken.
	ErrProductExists = errors.New("product already exists")

	// ErrUnknownSupermarket is returned when a supermarket id has no
	// registered search provider.
	ErrUnknownSupermarket = errors.New("unknown supermarket")
)
