package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Type tags a notification for the inbox UI
type Type string

const (
	TypeOrder          Type = "order"
	TypeTrackingUpdate Type = "tracking_update"
	TypeReviewRequest  Type = "review_request"
	TypeAccount        Type = "account"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeOrder, TypeTrackingUpdate, TypeReviewRequest, TypeAccount:
		return true
	}
	return false
}

// String returns the string representation
func (t Type) String() string {
	return string(t)
}

// Notification is an in-store inbox item. Only the read flag changes after creation.
type Notification struct {
	shared.BaseEntity
	UserID               uuid.UUID
	Type                 Type
	Message              string
	PurchaseID           *int64
	TrackingNumber       *string
	ExpectedDeliveryDate *time.Time
	IsRead               bool
}

// NewNotification creates an unread notification
func NewNotification(userID uuid.UUID, notificationType Type, message string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Notification target user cannot be empty")
	}
	if !notificationType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Unknown notification type: "+string(notificationType))
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Notification message cannot be empty")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       notificationType,
		Message:    message,
	}, nil
}

// ForPurchase links the notification to a purchase
func (n *Notification) ForPurchase(purchaseID int64) *Notification {
	n.PurchaseID = &purchaseID
	return n
}

// WithTracking attaches a carrier tracking number and optional delivery estimate
func (n *Notification) WithTracking(trackingNumber string, expected *time.Time) *Notification {
	if trackingNumber = strings.TrimSpace(trackingNumber); trackingNumber != "" {
		n.TrackingNumber = &trackingNumber
	}
	n.ExpectedDeliveryDate = expected
	return n
}

// MarkRead flags the notification as read by its owner
func (n *Notification) MarkRead(by uuid.UUID) error {
	if n.UserID != by {
		return shared.ErrForbidden
	}
	n.IsRead = true
	n.UpdatedAt = time.Now()
	return nil
}
