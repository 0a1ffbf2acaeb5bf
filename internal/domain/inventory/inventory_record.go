package inventory

import (
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// InventoryRecord holds the available quantity for a single product.
// There is exactly one record per product and its quantity never goes negative.
type InventoryRecord struct {
	ProductID int64
	Quantity  int64
	UpdatedAt time.Time
}

// NewInventoryRecord creates a stock record for a product
func NewInventoryRecord(productID, quantity int64) (*InventoryRecord, error) {
	if productID <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Product ID must be positive")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Stock quantity cannot be negative")
	}
	return &InventoryRecord{
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}, nil
}

// CanReserve reports whether qty units can be taken from this record
func (r *InventoryRecord) CanReserve(qty int64) bool {
	return qty > 0 && qty <= r.Quantity
}

// Reserve decrements the available quantity.
// Fails with InsufficientStockError when qty exceeds what is available.
func (r *InventoryRecord) Reserve(qty int64) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	if qty > r.Quantity {
		return NewInsufficientStockError(r.ProductID, qty, r.Quantity)
	}
	r.Quantity -= qty
	r.UpdatedAt = time.Now()
	return nil
}

// Restore increments the available quantity. There is no upper bound.
func (r *InventoryRecord) Restore(qty int64) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	r.Quantity += qty
	r.UpdatedAt = time.Now()
	return nil
}

// SetQuantity overwrites the stock level (admin stocking)
func (r *InventoryRecord) SetQuantity(qty int64) error {
	if qty < 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Stock quantity cannot be negative")
	}
	r.Quantity = qty
	r.UpdatedAt = time.Now()
	return nil
}

// ValidateQuantity rejects zero and negative movement quantities
func ValidateQuantity(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, fmt.Sprintf("Quantity must be positive, got %d", qty))
	}
	return nil
}
