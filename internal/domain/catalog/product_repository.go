package catalog

import (
	"context"
)

// ProductRepository is the read side of the catalog
type ProductRepository interface {
	// FindByID returns shared.ErrNotFound for unknown products
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDs returns products keyed by ID. Unknown IDs are absent from the map.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*Product, error)
}
