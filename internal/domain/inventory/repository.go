package inventory

import (
	"context"
)

// InventoryRepository defines the persistence contract for the inventory ledger.
// Reserve and Restore are single conditional statements so concurrent callers
// never observe or produce a negative quantity.
type InventoryRepository interface {
	// FindByProductID returns the stock record for a product
	FindByProductID(ctx context.Context, productID int64) (*InventoryRecord, error)

	// FindByProductIDs returns stock records keyed by product ID.
	// Products without a record are absent from the map.
	FindByProductIDs(ctx context.Context, productIDs []int64) (map[int64]*InventoryRecord, error)

	// Reserve decrements stock only if at least qty units are available.
	// Returns *InsufficientStockError when the guard fails.
	Reserve(ctx context.Context, productID, qty int64) error

	// Restore increments stock unconditionally.
	// Returns shared.ErrNotFound when the product has no record.
	Restore(ctx context.Context, productID, qty int64) error

	// Save creates or overwrites a stock record
	Save(ctx context.Context, record *InventoryRecord) error
}
