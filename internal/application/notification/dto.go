package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/notification"
)

// EmitInput describes one notification to create
type EmitInput struct {
	UserID               uuid.UUID
	Type                 notification.Type
	Message              string
	PurchaseID           *int64
	TrackingNumber       string
	ExpectedDeliveryDate *time.Time
}

// ListFilter narrows an inbox listing
type ListFilter struct {
	UnreadOnly bool `form:"unread"`
	Page       int  `form:"page" binding:"omitempty,min=1"`
	PageSize   int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NotificationResponse represents an inbox item in API responses
type NotificationResponse struct {
	ID                   int64      `json:"id"`
	Type                 string     `json:"type"`
	Message              string     `json:"message"`
	PurchaseID           *int64     `json:"purchase_id,omitempty"`
	TrackingNumber       *string    `json:"tracking_number,omitempty"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	IsRead               bool       `json:"is_read"`
	CreatedAt            time.Time  `json:"created_at"`
}

// ToNotificationResponse converts a domain notification to a response
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:                   n.ID,
		Type:                 n.Type.String(),
		Message:              n.Message,
		PurchaseID:           n.PurchaseID,
		TrackingNumber:       n.TrackingNumber,
		ExpectedDeliveryDate: n.ExpectedDeliveryDate,
		IsRead:               n.IsRead,
		CreatedAt:            n.CreatedAt,
	}
}
