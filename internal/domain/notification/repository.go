package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// NotificationRepository persists inbox notifications
type NotificationRepository interface {
	FindByID(ctx context.Context, id int64) (*Notification, error)

	// FindByUserID lists a user's notifications, newest first.
	// Filter key "unread" (bool) restricts to unread items.
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Notification, int64, error)

	// Create inserts a notification, assigning its ID
	Create(ctx context.Context, n *Notification) error

	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	MarkRead(ctx context.Context, id int64) error

	// MarkAllRead flags every unread notification of the user and returns how many changed
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
