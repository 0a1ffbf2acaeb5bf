package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ApprovalChecker re-derives what blocks a pending purchase from approval
type ApprovalChecker interface {
	ApprovalCheck(ctx context.Context, p *order.Purchase) ([]string, error)
}

// OrderService drives purchases through the status pipeline
type OrderService struct {
	purchaseRepo   order.PurchaseRepository
	approval       ApprovalChecker
	compensation   *CompensationRunner
	eventPublisher shared.EventPublisher
	metrics        *telemetry.OrderMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	purchaseRepo order.PurchaseRepository,
	approval ApprovalChecker,
	compensation *CompensationRunner,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		purchaseRepo: purchaseRepo,
		approval:     approval,
		compensation: compensation,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the order counters
func (s *OrderService) SetMetrics(metrics *telemetry.OrderMetrics) {
	s.metrics = metrics
}

// Transition applies a state-machine event to a purchase.
//
// The event must be legal from the status read at the start, otherwise the
// result is INVALID_TRANSITION. The new status is stored with a
// compare-and-set on that status; when another actor moved the purchase in
// between, the call is a no-op that returns the current purchase with
// Applied=false and runs no compensation and publishes no events.
func (s *OrderService) Transition(ctx context.Context, purchaseID int64, actor order.Actor, in TransitionInput) (*PurchaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "transition",
		telemetry.SpanAttrPurchaseID, purchaseID,
		telemetry.SpanAttrAction, string(in.Event),
	)
	defer span.End()

	var resp *PurchaseResponse
	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("transition", string(in.Event)), func(c context.Context) {
		resp, err = s.transition(c, purchaseID, actor, in)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrStatus, resp.Status, "applied", resp.Applied)
	return resp, nil
}

// Cancel is the customer's own cancellation, legal only while pending.
// Operators may use it too; they reject from processing instead.
func (s *OrderService) Cancel(ctx context.Context, purchaseID int64, actor order.Actor) (*PurchaseResponse, error) {
	return s.Transition(ctx, purchaseID, actor, TransitionInput{Event: order.ActionCancel})
}

func (s *OrderService) transition(ctx context.Context, purchaseID int64, actor order.Actor, in TransitionInput) (*PurchaseResponse, error) {
	if !in.Event.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, fmt.Sprintf("unknown event %q", in.Event))
	}

	p, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(p) {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Purchase not found")
	}
	if err := order.Authorize(actor, p, in.Event); err != nil {
		return nil, err
	}

	from := p.Status
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}

	if p.Status == order.StatusCancelled {
		return s.cancelPurchase(ctx, p, from, actor, in.Event)
	}
	return s.commit(ctx, p, from, actor, in.Event)
}

// apply runs the domain transition for in.Event on p in memory
func (s *OrderService) apply(ctx context.Context, p *order.Purchase, in TransitionInput) error {
	switch in.Event {
	case order.ActionApprove:
		if !order.CanApply(p.Status, order.ActionApprove) {
			return order.NewInvalidTransitionError(p.Status, order.ActionApprove)
		}
		missing, err := s.approval.ApprovalCheck(ctx, p)
		if err != nil {
			return err
		}
		return p.Approve(missing)
	case order.ActionReject:
		return p.Reject()
	case order.ActionAdvance:
		return p.Advance(in.TrackingNumber, in.ExpectedDeliveryDate)
	case order.ActionComplete:
		return p.Complete()
	case order.ActionCancel:
		return p.Cancel()
	}
	return shared.NewDomainError(shared.CodeValidationFailed, fmt.Sprintf("unknown event %q", in.Event))
}

// commit stores p's new status if p is still in from, then publishes its events
func (s *OrderService) commit(ctx context.Context, p *order.Purchase, from order.Status, actor order.Actor, action order.Action) (*PurchaseResponse, error) {
	applied, err := s.purchaseRepo.CompareAndSetStatus(ctx, p.ID, from, p.Status, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase status: %w", err)
	}
	if !applied {
		return s.lostRace(ctx, p.ID, from, actor, action)
	}

	s.metrics.RecordTransition(ctx, action.String(), p.Status.String())
	s.logger.Info("purchase transitioned",
		zap.Int64("purchase_id", p.ID),
		zap.String("action", action.String()),
		zap.String("from", from.String()),
		zap.String("to", p.Status.String()),
		zap.String("actor_role", string(actor.Role)),
	)
	publishEvents(ctx, s.eventPublisher, p, s.logger)

	resp := ToPurchaseResponse(p, actor)
	return &resp, nil
}

// cancelPurchase is the only path into cancelled. Once the status change is
// stored it restores the reserved stock. Restore failures are logged for
// reconciliation and do not undo the cancellation.
func (s *OrderService) cancelPurchase(ctx context.Context, p *order.Purchase, from order.Status, actor order.Actor, action order.Action) (*PurchaseResponse, error) {
	applied, err := s.purchaseRepo.CompareAndSetStatus(ctx, p.ID, from, order.StatusCancelled, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to cancel purchase: %w", err)
	}
	if !applied {
		return s.lostRace(ctx, p.ID, from, actor, action)
	}

	report := s.compensation.Restore(ctx, p)
	if err := report.Err(); err != nil {
		s.logger.Error("purchase cancelled with unrestored stock",
			zap.Bool("reconcile", true),
			zap.Int64("purchase_id", p.ID),
			zap.Int("failed_items", len(report.Failures)),
			zap.Error(err),
		)
	}

	s.metrics.RecordTransition(ctx, action.String(), order.StatusCancelled.String())
	s.logger.Info("purchase cancelled",
		zap.Int64("purchase_id", p.ID),
		zap.String("action", action.String()),
		zap.String("from", from.String()),
		zap.String("actor_role", string(actor.Role)),
		zap.Int64("restored_units", report.RestoredUnits),
	)
	publishEvents(ctx, s.eventPublisher, p, s.logger)

	resp := ToPurchaseResponse(p, actor)
	return &resp, nil
}

// lostRace re-reads a purchase whose status changed under us
func (s *OrderService) lostRace(ctx context.Context, id int64, from order.Status, actor order.Actor, action order.Action) (*PurchaseResponse, error) {
	current, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("transition skipped, purchase changed concurrently",
		zap.Int64("purchase_id", id),
		zap.String("action", action.String()),
		zap.String("expected", from.String()),
		zap.String("current", current.Status.String()),
	)
	resp := ToPurchaseResponse(current, actor)
	resp.Applied = false
	return &resp, nil
}

// GetByID returns a purchase the actor may see. Other customers' purchases
// are reported as not found.
func (s *OrderService) GetByID(ctx context.Context, purchaseID int64, actor order.Actor) (*PurchaseResponse, error) {
	p, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(p) {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Purchase not found")
	}
	if err := p.VerifyTotal(); err != nil {
		s.logger.Error("purchase total mismatch", zap.Int64("purchase_id", p.ID), zap.Error(err))
	}
	resp := ToPurchaseResponse(p, actor)
	return &resp, nil
}

// ListForUser returns a customer's purchase history, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter ListFilter) (shared.Paginated[PurchaseListItemResponse], error) {
	f, err := toFilter(filter)
	if err != nil {
		return shared.Paginated[PurchaseListItemResponse]{}, err
	}
	purchases, total, err := s.purchaseRepo.FindByUserID(ctx, userID, f)
	if err != nil {
		return shared.Paginated[PurchaseListItemResponse]{}, fmt.Errorf("failed to list purchases: %w", err)
	}
	return shared.NewPaginated(ToPurchaseListItemResponses(purchases), total, f.Page, f.PageSize), nil
}

// ListByStatus returns one admin queue
func (s *OrderService) ListByStatus(ctx context.Context, actor order.Actor, filter ListFilter) (shared.Paginated[PurchaseListItemResponse], error) {
	if !actor.IsStaff() {
		return shared.Paginated[PurchaseListItemResponse]{}, shared.ErrForbidden
	}
	if filter.Status == "" {
		filter.Status = order.StatusPending.String()
	}
	f, err := toFilter(filter)
	if err != nil {
		return shared.Paginated[PurchaseListItemResponse]{}, err
	}
	status, _ := f.Filters["status"].(order.Status)
	delete(f.Filters, "status")

	purchases, total, err := s.purchaseRepo.FindByStatus(ctx, status, f)
	if err != nil {
		return shared.Paginated[PurchaseListItemResponse]{}, fmt.Errorf("failed to list purchases: %w", err)
	}
	return shared.NewPaginated(ToPurchaseListItemResponses(purchases), total, f.Page, f.PageSize), nil
}

// CountByStatus returns the size of every admin queue
func (s *OrderService) CountByStatus(ctx context.Context, actor order.Actor) (*StatusCountsResponse, error) {
	if !actor.IsStaff() {
		return nil, shared.ErrForbidden
	}
	counts, err := s.purchaseRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count purchases: %w", err)
	}
	resp := &StatusCountsResponse{Counts: make(map[string]int64, len(order.AllStatuses))}
	for _, st := range order.AllStatuses {
		resp.Counts[st.String()] = counts[st]
		resp.Total += counts[st]
	}
	return resp, nil
}

func toFilter(filter ListFilter) (shared.Filter, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()
	if filter.Status != "" {
		status := order.Status(filter.Status)
		if !status.IsValid() {
			return shared.Filter{}, shared.NewDomainError(shared.CodeValidationFailed, fmt.Sprintf("unknown status %q", filter.Status))
		}
		f.Filters["status"] = status
	}
	return f, nil
}
