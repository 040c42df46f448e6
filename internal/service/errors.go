package service

import "errors"

// Sentinel errors separate the failure taxonomy from transport concerns;
// handlers translate them to status codes exactly once.
var (
	ErrValidation         = errors.New("validation")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrItemNotFound       = errors.New("cart item not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrOrderNotFound      = errors.New("order not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
)
