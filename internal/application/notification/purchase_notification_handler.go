package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PurchaseNotificationHandler turns purchase events into inbox notifications.
// Each event yields exactly one notification; completion also asks for a review.
type PurchaseNotificationHandler struct {
	notifier *Notifier
	logger   *zap.Logger
}

// NewPurchaseNotificationHandler creates a new PurchaseNotificationHandler
func NewPurchaseNotificationHandler(notifier *Notifier, logger *zap.Logger) *PurchaseNotificationHandler {
	return &PurchaseNotificationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the purchase events this handler reacts to
func (h *PurchaseNotificationHandler) EventTypes() []string {
	return order.PurchaseEventTypes
}

// Handle emits the notification for event. Emit failures are logged and
// swallowed: the status change already happened.
func (h *PurchaseNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	inputs, err := notificationsFor(event)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if _, err := h.notifier.Emit(ctx, in); err != nil {
			h.logger.Error("failed to emit purchase notification",
				zap.String("event_id", event.EventID().String()),
				zap.String("event_type", event.EventType()),
				zap.Int64("purchase_id", event.AggregateID()),
				zap.String("type", in.Type.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func notificationsFor(event shared.DomainEvent) ([]EmitInput, error) {
	switch e := event.(type) {
	case *order.PurchasePlacedEvent:
		return []EmitInput{orderNotice(e.UserID, e.PurchaseID,
			fmt.Sprintf("We received your order #%d. It is awaiting confirmation.", e.PurchaseID))}, nil

	case *order.PurchaseApprovedEvent:
		return []EmitInput{orderNotice(e.UserID, e.PurchaseID,
			fmt.Sprintf("Your order #%d is now being processed.", e.PurchaseID))}, nil

	case *order.PurchaseShippedEvent:
		msg := fmt.Sprintf("Your order #%d is out for delivery. Tracking number: %s.", e.PurchaseID, e.TrackingNumber)
		if e.ExpectedDeliveryDate != nil {
			msg += fmt.Sprintf(" Expected delivery: %s.", e.ExpectedDeliveryDate.Format("Jan 2, 2006"))
		}
		in := orderNotice(e.UserID, e.PurchaseID, msg)
		in.Type = notification.TypeTrackingUpdate
		in.TrackingNumber = e.TrackingNumber
		in.ExpectedDeliveryDate = e.ExpectedDeliveryDate
		return []EmitInput{in}, nil

	case *order.PurchaseCompletedEvent:
		review := orderNotice(e.UserID, e.PurchaseID,
			fmt.Sprintf("How was your order #%d? Leave a review for the items you received.", e.PurchaseID))
		review.Type = notification.TypeReviewRequest
		return []EmitInput{
			orderNotice(e.UserID, e.PurchaseID, fmt.Sprintf("Your order #%d has been marked completed.", e.PurchaseID)),
			review,
		}, nil

	case *order.PurchaseCancelledEvent:
		return []EmitInput{orderNotice(e.UserID, e.PurchaseID, cancellationMessage(e))}, nil
	}
	return nil, fmt.Errorf("unsupported event %s (%T)", event.EventType(), event)
}

func orderNotice(userID uuid.UUID, purchaseID int64, message string) EmitInput {
	return EmitInput{
		UserID:     userID,
		Type:       notification.TypeOrder,
		Message:    message,
		PurchaseID: &purchaseID,
	}
}

func cancellationMessage(e *order.PurchaseCancelledEvent) string {
	switch e.Reason {
	case order.CancelReasonIncompleteProfile:
		msg := fmt.Sprintf("Your order #%d was cancelled because your profile is incomplete.", e.PurchaseID)
		if len(e.MissingFields) > 0 {
			msg += " Missing: " + humanizeFields(e.MissingFields) + "."
		}
		return msg
	case order.CancelReasonRejected:
		return fmt.Sprintf("Your order #%d has been cancelled by the store.", e.PurchaseID)
	default:
		return fmt.Sprintf("Your order #%d has been cancelled.", e.PurchaseID)
	}
}

// humanizeFields renders field keys such as "first_name" as "First Name"
func humanizeFields(fields []string) string {
	caser := cases.Title(language.English)
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = caser.String(strings.ReplaceAll(f, "_", " "))
	}
	return strings.Join(labels, ", ")
}
