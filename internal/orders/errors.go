package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput rejects malformed or incomplete requests before any write.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOrderNotFound indicates the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateJournalNumber indicates the payment journal number is
	// already claimed by a different order.
	ErrDuplicateJournalNumber = errors.New("journal number already used by another order")
)

// InsufficientStockError rejects a whole cart: it carries one human-readable
// problem per shortfall or missing product, as collected by the validator.
type InsufficientStockError struct {
	Problems []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s", strings.Join(e.Problems, "; "))
}
