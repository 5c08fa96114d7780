package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrMarketNotFound signals a missing market.
	ErrMarketNotFound = errors.New("market not found")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrListingNotFound signals that a product has no listing in the market.
	ErrListingNotFound = errors.New("listing not found")
	// ErrStallNotFound signals a missing stall in the market layout.
	ErrStallNotFound = errors.New("stall not found")
	// ErrBadRequest signals an invalid or incomplete request payload.
	ErrBadRequest = errors.New("bad request")
	// ErrConflict is reserved for duplicate stall-number claims.
	ErrConflict = errors.New("conflict")
)
