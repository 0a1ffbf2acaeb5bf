package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for an inbox notification.
type NotificationModel struct {
	BaseModel
	UserID               uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1"`
	Type                 string     `gorm:"type:varchar(30);not null"`
	Message              string     `gorm:"type:text;not null"`
	PurchaseID           *int64     `gorm:"index"`
	TrackingNumber       *string    `gorm:"type:varchar(100)"`
	ExpectedDeliveryDate *time.Time `gorm:"type:date"`
	IsRead               bool       `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity:           m.BaseModel.ToDomain(),
		UserID:               m.UserID,
		Type:                 notification.Type(m.Type),
		Message:              m.Message,
		PurchaseID:           m.PurchaseID,
		TrackingNumber:       m.TrackingNumber,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		IsRead:               m.IsRead,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		UserID:               n.UserID,
		Type:                 n.Type.String(),
		Message:              n.Message,
		PurchaseID:           n.PurchaseID,
		TrackingNumber:       n.TrackingNumber,
		ExpectedDeliveryDate: n.ExpectedDeliveryDate,
		IsRead:               n.IsRead,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}
