package inventory

import (
	"time"

	"github.com/storefront/backend/internal/domain/inventory"
)

// StockResponse represents a product's stock level in API responses
type StockResponse struct {
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	InStock   bool      `json:"in_stock"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetStockRequest overwrites a product's stock level
type SetStockRequest struct {
	Quantity *int64 `json:"quantity" binding:"required,min=0"`
}

// ToStockResponse converts a domain record to a response
func ToStockResponse(r *inventory.InventoryRecord) StockResponse {
	return StockResponse{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		InStock:   r.Quantity > 0,
		UpdatedAt: r.UpdatedAt,
	}
}
