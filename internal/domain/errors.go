package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict is returned when a cart changed between read and write.
	ErrConflict = errors.New("cart modified concurrently")
	// ErrStoreUnavailable wraps failures of the underlying persistence.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrNoCart              = errors.New("user does not have a cart")
	ErrInvalidQuantity     = errors.New("quantity must be between 1 and 2147483647")
	ErrTotalOverflow       = errors.New("cart total out of range")
	ErrInvalidProduct      = errors.New("product does not exist")
	ErrDuplicateItem       = errors.New("product already in cart")
	ErrItemNotInCart       = errors.New("product not in cart")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrAddressNotSet       = errors.New("address not set")
	ErrInsufficientBalance = errors.New("wallet balance not sufficient")
)

// ValidationError reports client input that failed a business rule.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Invalid builds a ValidationError with msg.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
