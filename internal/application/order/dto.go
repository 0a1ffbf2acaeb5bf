package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// CartItem is one line of the cart being checked out
type CartItem struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	Quantity  int64 `json:"quantity" binding:"required,min=1"`
}

// CheckoutInput carries a customer's cart into checkout
type CheckoutInput struct {
	UserID    uuid.UUID  `json:"-"`
	Items     []CartItem `json:"items" binding:"required,min=1,dive"`
	AddressID *int64     `json:"address_id,omitempty" binding:"omitempty,min=1"`
}

// CheckoutResult is returned when a purchase has been placed
type CheckoutResult struct {
	Purchase PurchaseResponse `json:"purchase"`
}

// TransitionInput requests a state-machine event on a purchase
type TransitionInput struct {
	Event                order.Action `json:"event" binding:"required,oneof=approve reject advance complete cancel"`
	TrackingNumber       string       `json:"tracking_number,omitempty" binding:"max=64"`
	ExpectedDeliveryDate *time.Time   `json:"expected_delivery_date,omitempty"`
}

// ListFilter narrows a purchase listing
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending processing delivering completed cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseItemResponse represents a purchase line in API responses
type PurchaseItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// TransactionDetailsResponse represents the shipping snapshot
type TransactionDetailsResponse struct {
	RecipientName string `json:"recipient_name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
}

// PurchaseResponse represents a purchase in API responses.
// Applied is false when a concurrent actor had already moved the purchase.
type PurchaseResponse struct {
	ID               int64                      `json:"id"`
	UserID           uuid.UUID                  `json:"user_id"`
	Status           string                     `json:"status"`
	TotalAmount      decimal.Decimal            `json:"total_amount"`
	ItemCount        int64                      `json:"item_count"`
	AddressID        *int64                     `json:"address_id,omitempty"`
	Details          TransactionDetailsResponse `json:"transaction_details"`
	Items            []PurchaseItemResponse     `json:"items"`
	AvailableActions []string                   `json:"available_actions"`
	Applied          bool                       `json:"applied"`
	Version          int                        `json:"version"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// PurchaseListItemResponse is the compact row used in queues and histories
type PurchaseListItemResponse struct {
	ID            int64           `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemCount     int64           `json:"item_count"`
	RecipientName string          `json:"recipient_name"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StatusCountsResponse holds the size of every status queue
type StatusCountsResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// ToPurchaseResponse converts a purchase to a response for actor.
// AvailableActions lists only what actor may do next.
func ToPurchaseResponse(p *order.Purchase, actor order.Actor) PurchaseResponse {
	items := make([]PurchaseItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = PurchaseItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			Subtotal:    item.Subtotal(),
		}
	}

	actions := make([]string, 0)
	for _, a := range order.AvailableActions(p.Status) {
		if order.Authorize(actor, p, a) == nil {
			actions = append(actions, a.String())
		}
	}

	return PurchaseResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Status:      p.Status.String(),
		TotalAmount: p.TotalAmount,
		ItemCount:   p.ItemCount(),
		AddressID:   p.AddressID,
		Details: TransactionDetailsResponse{
			RecipientName: p.Details.RecipientName,
			Address:       p.Details.Address,
			Phone:         p.Details.Phone,
		},
		Items:            items,
		AvailableActions: actions,
		Applied:          true,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToPurchaseListItemResponse converts a purchase to a list row
func ToPurchaseListItemResponse(p *order.Purchase) PurchaseListItemResponse {
	return PurchaseListItemResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Status:        p.Status.String(),
		TotalAmount:   p.TotalAmount,
		ItemCount:     p.ItemCount(),
		RecipientName: p.Details.RecipientName,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPurchaseListItemResponses converts a slice of purchases
func ToPurchaseListItemResponses(purchases []order.Purchase) []PurchaseListItemResponse {
	result := make([]PurchaseListItemResponse, len(purchases))
	for i := range purchases {
		result[i] = ToPurchaseListItemResponse(&purchases[i])
	}
	return result
}
