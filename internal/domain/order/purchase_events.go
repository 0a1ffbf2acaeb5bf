package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchase = "Purchase"

// Event type constants
const (
	EventTypePurchasePlaced    = "PurchasePlaced"
	EventTypePurchaseApproved  = "PurchaseApproved"
	EventTypePurchaseShipped   = "PurchaseShipped"
	EventTypePurchaseCompleted = "PurchaseCompleted"
	EventTypePurchaseCancelled = "PurchaseCancelled"
)

// PurchaseEventTypes lists every purchase event type
var PurchaseEventTypes = []string{
	EventTypePurchasePlaced,
	EventTypePurchaseApproved,
	EventTypePurchaseShipped,
	EventTypePurchaseCompleted,
	EventTypePurchaseCancelled,
}

// PurchaseItemInfo represents item information for events
type PurchaseItemInfo struct {
	ProductID   int64           `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
}

func itemInfos(p *Purchase) []PurchaseItemInfo {
	items := make([]PurchaseItemInfo, len(p.Items))
	for i, item := range p.Items {
		items[i] = PurchaseItemInfo{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		}
	}
	return items
}

// PurchasePlacedEvent is raised once checkout has persisted the purchase
type PurchasePlacedEvent struct {
	shared.BaseDomainEvent
	PurchaseID  int64              `json:"purchase_id"`
	UserID      uuid.UUID          `json:"user_id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []PurchaseItemInfo `json:"items"`
}

// NewPurchasePlacedEvent creates a new PurchasePlacedEvent
func NewPurchasePlacedEvent(p *Purchase) *PurchasePlacedEvent {
	return &PurchasePlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchasePlaced, AggregateTypePurchase, p.ID),
		PurchaseID:      p.ID,
		UserID:          p.UserID,
		TotalAmount:     p.TotalAmount,
		Items:           itemInfos(p),
	}
}

// PurchaseApprovedEvent is raised when an operator moves a purchase to processing
type PurchaseApprovedEvent struct {
	shared.BaseDomainEvent
	PurchaseID int64     `json:"purchase_id"`
	UserID     uuid.UUID `json:"user_id"`
}

// NewPurchaseApprovedEvent creates a new PurchaseApprovedEvent
func NewPurchaseApprovedEvent(p *Purchase) *PurchaseApprovedEvent {
	return &PurchaseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseApproved, AggregateTypePurchase, p.ID),
		PurchaseID:      p.ID,
		UserID:          p.UserID,
	}
}

// PurchaseShippedEvent is raised when a purchase is handed to the carrier
type PurchaseShippedEvent struct {
	shared.BaseDomainEvent
	PurchaseID           int64      `json:"purchase_id"`
	UserID               uuid.UUID  `json:"user_id"`
	TrackingNumber       string     `json:"tracking_number"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
}

// NewPurchaseShippedEvent creates a new PurchaseShippedEvent
func NewPurchaseShippedEvent(p *Purchase, trackingNumber string, expected *time.Time) *PurchaseShippedEvent {
	return &PurchaseShippedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(EventTypePurchaseShipped, AggregateTypePurchase, p.ID),
		PurchaseID:           p.ID,
		UserID:               p.UserID,
		TrackingNumber:       trackingNumber,
		ExpectedDeliveryDate: expected,
	}
}

// PurchaseCompletedEvent is raised when a delivered purchase is closed
type PurchaseCompletedEvent struct {
	shared.BaseDomainEvent
	PurchaseID int64     `json:"purchase_id"`
	UserID     uuid.UUID `json:"user_id"`
}

// NewPurchaseCompletedEvent creates a new PurchaseCompletedEvent
func NewPurchaseCompletedEvent(p *Purchase) *PurchaseCompletedEvent {
	return &PurchaseCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCompleted, AggregateTypePurchase, p.ID),
		PurchaseID:      p.ID,
		UserID:          p.UserID,
	}
}

// PurchaseCancelledEvent is raised on every path into cancelled.
// Items are the stock reserved at checkout that must be restored.
type PurchaseCancelledEvent struct {
	shared.BaseDomainEvent
	PurchaseID     int64              `json:"purchase_id"`
	UserID         uuid.UUID          `json:"user_id"`
	PreviousStatus Status             `json:"previous_status"`
	Action         Action             `json:"action"`
	Reason         string             `json:"reason"`
	MissingFields  []string           `json:"missing_fields,omitempty"`
	Items          []PurchaseItemInfo `json:"items"`
}

// NewPurchaseCancelledEvent creates a new PurchaseCancelledEvent
func NewPurchaseCancelledEvent(p *Purchase, from Status, action Action, reason string, missingFields []string) *PurchaseCancelledEvent {
	return &PurchaseCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCancelled, AggregateTypePurchase, p.ID),
		PurchaseID:      p.ID,
		UserID:          p.UserID,
		PreviousStatus:  from,
		Action:          action,
		Reason:          reason,
		MissingFields:   missingFields,
		Items:           itemInfos(p),
	}
}
