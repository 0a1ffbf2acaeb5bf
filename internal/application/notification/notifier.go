// Package notification writes inbox notifications and turns purchase events
// into customer-facing messages.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Notifier creates and serves in-store inbox notifications
type Notifier struct {
	repo   notification.NotificationRepository
	logger *zap.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(repo notification.NotificationRepository, logger *zap.Logger) *Notifier {
	return &Notifier{
		repo:   repo,
		logger: logger,
	}
}

// Emit creates one unread notification. Any failure is reported as
// NOTIFICATION_FAILED; callers log it and carry on.
func (n *Notifier) Emit(ctx context.Context, in EmitInput) (*notification.Notification, error) {
	item, err := notification.NewNotification(in.UserID, in.Type, in.Message)
	if err != nil {
		return nil, notificationFailed(err)
	}
	if in.PurchaseID != nil {
		item.ForPurchase(*in.PurchaseID)
	}
	if in.TrackingNumber != "" || in.ExpectedDeliveryDate != nil {
		item.WithTracking(in.TrackingNumber, in.ExpectedDeliveryDate)
	}

	if err := n.repo.Create(ctx, item); err != nil {
		return nil, notificationFailed(err)
	}

	n.logger.Debug("notification emitted",
		zap.Int64("notification_id", item.ID),
		zap.String("user_id", in.UserID.String()),
		zap.String("type", in.Type.String()),
	)
	return item, nil
}

// List returns a page of the user's inbox, newest first
func (n *Notifier) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (shared.Paginated[NotificationResponse], error) {
	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	if filter.UnreadOnly {
		f.Filters["unread"] = true
	}

	items, total, err := n.repo.FindByUserID(ctx, userID, f)
	if err != nil {
		return shared.Paginated[NotificationResponse]{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return shared.NewPaginated(responses, total, f.Page, f.PageSize), nil
}

// UnreadCount returns the number of unread notifications for the badge
func (n *Notifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return n.repo.CountUnread(ctx, userID)
}

// MarkRead flags one notification as read. Only its owner may do so.
func (n *Notifier) MarkRead(ctx context.Context, userID uuid.UUID, id int64) error {
	item, err := n.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := item.MarkRead(userID); err != nil {
		return err
	}
	return n.repo.MarkRead(ctx, id)
}

// MarkAllRead flags every unread notification of the user and returns how many changed
func (n *Notifier) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return n.repo.MarkAllRead(ctx, userID)
}

func notificationFailed(cause error) *shared.DomainError {
	return shared.NewDomainError(shared.CodeNotificationFailed, "failed to emit notification: "+cause.Error()).
		WithDetail("cause", cause.Error())
}
