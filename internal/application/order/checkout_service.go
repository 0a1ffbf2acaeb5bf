package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	appcustomer "github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CheckoutAddressResolver supplies the profile gate and delivery snapshot for checkout
type CheckoutAddressResolver interface {
	RequireCompleteProfile(ctx context.Context, userID uuid.UUID) error
	ResolveForCheckout(ctx context.Context, userID uuid.UUID, addressID *int64) (*appcustomer.CheckoutAddress, error)
}

// CheckoutService turns a cart into a pending purchase with its stock reserved
type CheckoutService struct {
	productRepo    catalog.ProductRepository
	inventoryRepo  inventory.InventoryRepository
	resolver       CheckoutAddressResolver
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	metrics        *telemetry.OrderMetrics
	logger         *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	productRepo catalog.ProductRepository,
	inventoryRepo inventory.InventoryRepository,
	resolver CheckoutAddressResolver,
	txScope TransactionScope,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		resolver:      resolver,
		txScope:       txScope,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the order counters
func (s *CheckoutService) SetMetrics(metrics *telemetry.OrderMetrics) {
	s.metrics = metrics
}

// Checkout places a purchase for the cart.
//
// The check phase reads products, stock, profile and address and writes
// nothing. The commit phase reserves every line and inserts the purchase in
// one transaction; a reserve that loses a race to a concurrent checkout
// fails with INSUFFICIENT_STOCK and rolls everything back.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place",
		telemetry.SpanAttrUserID, in.UserID.String(),
		telemetry.SpanAttrItemCount, len(in.Items),
	)
	defer span.End()

	var result *CheckoutResult
	var checkoutErr error
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("checkout", ""), func(c context.Context) {
		result, checkoutErr = s.checkout(c, in)
	})

	if checkoutErr != nil {
		telemetry.RecordError(span, checkoutErr)
		s.metrics.RecordCheckout(ctx, outcomeOf(checkoutErr))
		return nil, checkoutErr
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseID, result.Purchase.ID)
	s.metrics.RecordCheckout(ctx, "placed")
	return result, nil
}

func (s *CheckoutService) checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.UserID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "User ID is required")
	}
	lines, err := mergeCart(in.Items)
	if err != nil {
		return nil, err
	}

	if err := s.resolver.RequireCompleteProfile(ctx, in.UserID); err != nil {
		return nil, err
	}

	productIDs := make([]int64, len(lines))
	for i, line := range lines {
		productIDs[i] = line.ProductID
	}

	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	items := make([]order.PurchaseItem, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Product %d not found", line.ProductID)).WithDetail("product_id", line.ProductID)
		}
		if !product.IsPurchasable() {
			return nil, shared.NewDomainError(shared.CodeValidationFailed,
				fmt.Sprintf("Product %q is not available for purchase", product.Name)).WithDetail("product_id", line.ProductID)
		}
		item, err := order.NewPurchaseItem(line.ProductID, line.Quantity, product.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	stock, err := s.inventoryRepo.FindByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	for _, line := range lines {
		var available int64
		if record, ok := stock[line.ProductID]; ok {
			available = record.Quantity
		}
		if line.Quantity > available {
			return nil, inventory.NewInsufficientStockError(line.ProductID, line.Quantity, available)
		}
	}

	resolved, err := s.resolver.ResolveForCheckout(ctx, in.UserID, in.AddressID)
	if err != nil {
		return nil, err
	}
	addressID := resolved.AddressID

	purchase, err := order.NewPurchase(in.UserID, &addressID, resolved.Details, items)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range purchase.Items {
			if err := repos.InventoryRepo().Reserve(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return repos.PurchaseRepo().Create(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	purchase.MarkPlaced()
	s.logger.Info("purchase placed",
		zap.Int64("purchase_id", purchase.ID),
		zap.String("user_id", in.UserID.String()),
		zap.String("total_amount", purchase.TotalAmount.String()),
		zap.Int("lines", len(purchase.Items)),
	)
	publishEvents(ctx, s.eventPublisher, purchase, s.logger)

	return &CheckoutResult{Purchase: ToPurchaseResponse(purchase, order.NewCustomerActor(in.UserID))}, nil
}

// mergeCart sums duplicate lines and orders them by product ID, so that
// concurrent checkouts take row locks in the same order.
func mergeCart(items []CartItem) ([]CartItem, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Cart is empty")
	}
	totals := make(map[int64]int64, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, shared.NewDomainError(shared.CodeValidationFailed, "Product ID must be positive")
		}
		if err := inventory.ValidateQuantity(item.Quantity); err != nil {
			return nil, shared.NewDomainError(shared.CodeValidationFailed,
				fmt.Sprintf("Quantity for product %d must be positive", item.ProductID))
		}
		totals[item.ProductID] += item.Quantity
	}
	lines := make([]CartItem, 0, len(totals))
	for id, qty := range totals {
		lines = append(lines, CartItem{ProductID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// publishEvents drains p's buffered events to publisher. Publish failures
// are logged; the state change they describe has already been stored.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, p *order.Purchase, logger *zap.Logger) {
	events := p.PullDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish purchase events",
			zap.Int64("purchase_id", p.ID),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}

func outcomeOf(err error) string {
	if domainErr, ok := shared.AsDomainError(err); ok {
		return domainErr.Code
	}
	return "error"
}
