package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// PurchaseRepository defines the persistence contract for purchases.
// Purchases are never deleted.
type PurchaseRepository interface {
	// FindByID loads a purchase with its items and snapshot
	FindByID(ctx context.Context, id int64) (*Purchase, error)

	// FindByUserID lists a customer's purchases, newest first.
	// Filter key "status" (Status) narrows the list.
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Purchase, int64, error)

	// FindByStatus lists purchases in one status queue
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Purchase, int64, error)

	// CountByStatus returns the queue sizes for every status
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// Create inserts the header, items and snapshot, assigning IDs
	Create(ctx context.Context, p *Purchase) error

	// CompareAndSetStatus moves the purchase from -> to only if it is still in
	// from. It reports false when another actor changed the status first.
	CompareAndSetStatus(ctx context.Context, id int64, from, to Status, at time.Time) (bool, error)
}
