package pos

import (
	"errors"
	"fmt"

	"shoppos/m/domain"
	"shoppos/m/internal/store"
)

// Failure conditions reported by the operations in this package. Storage
// conditions share identity with the store sentinels so errors.Is matches
// either name.
var (
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidDiscount    = domain.ErrInvalidDiscount
	ErrMissingCustomer    = errors.New("credit sale requires a customer")
	ErrOverPayment        = errors.New("payment exceeds amount owed")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateKey       = store.ErrDuplicate
	ErrRecordNotFound     = store.ErrNotFound
	ErrStorageUnavailable = store.ErrUnavailable
)

// StockError reports the first line of a sale that asked for more units
// than are on hand.
type StockError struct {
	ProductID int64
	Product   string
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Product, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(kind string, id any, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %v: %w", kind, id, ErrRecordNotFound)
	}
	return err
}
