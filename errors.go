package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the sentinel wrapped by every ValidationError.
	ErrValidation = errors.New("cart: validation failed")
	// ErrNotFound is the sentinel wrapped by every NotFoundError.
	ErrNotFound = errors.New("cart: item not found")
)

// ValidationError reports a rejected facade call.
type ValidationError struct {
	Op      string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field == "" {
		return fmt.Sprintf("cart: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("cart: %s: %s %s", e.Op, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports an operation on an item that is not in the cart.
type NotFoundError struct {
	Op string
	ID string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("cart: %s: no item with id %q", e.Op, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
