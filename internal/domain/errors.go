package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrProductNotFound is returned when a model does not exist in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrEmptyProductStock is returned when a product exists but has no units available.
	ErrEmptyProductStock = errors.New("product stock is empty")
	// ErrLowProductStock is returned when a requested quantity exceeds the available units.
	ErrLowProductStock = errors.New("product stock cannot satisfy the requested quantity")

	// ErrCartNotFound is returned when an owner has no unpaid cart.
	ErrCartNotFound = errors.New("cart not found")
	// ErrEmptyCart is returned when the current cart has no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProductNotInCart is returned when a model has no line in the current cart.
	ErrProductNotInCart = errors.New("product not in cart")
)
