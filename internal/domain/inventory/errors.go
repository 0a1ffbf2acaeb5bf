package inventory

import (
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
)

// InsufficientStockError reports a reservation that would drive stock negative
type InsufficientStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

// NewInsufficientStockError creates an InsufficientStockError
func NewInsufficientStockError(productID, requested, available int64) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Unwrap exposes the error as an INSUFFICIENT_STOCK domain error
func (e *InsufficientStockError) Unwrap() error {
	return shared.NewDomainError(shared.CodeInsufficientStock, e.Error()).
		WithDetail("product_id", e.ProductID).
		WithDetail("requested", e.Requested).
		WithDetail("available", e.Available)
}
