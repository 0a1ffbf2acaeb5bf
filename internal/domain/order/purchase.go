package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Cancellation reasons recorded on PurchaseCancelledEvent
const (
	CancelReasonIncompleteProfile = "incomplete_profile"
	CancelReasonRejected          = "rejected"
	CancelReasonCustomer          = "customer_cancelled"
)

// PurchaseItem is one immutable line of a purchase. PriceAtTime is what the
// customer paid and is never revised when the catalog price changes.
type PurchaseItem struct {
	ID          int64
	PurchaseID  int64
	ProductID   int64
	Quantity    int64
	PriceAtTime decimal.Decimal
	CreatedAt   time.Time
}

// NewPurchaseItem creates a line item
func NewPurchaseItem(productID, quantity int64, price decimal.Decimal) (PurchaseItem, error) {
	if productID <= 0 {
		return PurchaseItem{}, shared.NewDomainError(shared.CodeValidationFailed, "Product ID must be positive")
	}
	if quantity <= 0 {
		return PurchaseItem{}, shared.NewDomainError(shared.CodeInvalidQuantity,
			fmt.Sprintf("Quantity for product %d must be positive", productID))
	}
	if price.IsNegative() {
		return PurchaseItem{}, shared.NewDomainError(shared.CodeValidationFailed,
			fmt.Sprintf("Price for product %d cannot be negative", productID))
	}
	return PurchaseItem{
		ProductID:   productID,
		Quantity:    quantity,
		PriceAtTime: price,
		CreatedAt:   time.Now(),
	}, nil
}

// Subtotal returns quantity × price_at_time
func (i PurchaseItem) Subtotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(i.Quantity))
}

// TransactionDetails is the shipping snapshot copied at checkout.
// Later edits to the address book never change it.
type TransactionDetails struct {
	RecipientName string
	Address       string
	Phone         string
}

// Purchase is the order aggregate: header, line items and shipping snapshot.
// Status is the only field that changes after creation.
type Purchase struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID
	TotalAmount decimal.Decimal
	Status      Status
	AddressID   *int64
	Details     TransactionDetails
	Items       []PurchaseItem
}

// NewPurchase creates a pending purchase and fixes its total
func NewPurchase(userID uuid.UUID, addressID *int64, details TransactionDetails, items []PurchaseItem) (*Purchase, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "User ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Purchase must contain at least one item")
	}
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ProductID]; dup {
			return nil, shared.NewDomainError(shared.CodeValidationFailed,
				fmt.Sprintf("Product %d appears more than once", item.ProductID))
		}
		seen[item.ProductID] = struct{}{}
	}

	p := &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            StatusPending,
		AddressID:         addressID,
		Details:           details,
		Items:             items,
	}
	p.TotalAmount = p.sumItems()
	return p, nil
}

func (p *Purchase) sumItems() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// VerifyTotal checks that the stored total matches the line items
func (p *Purchase) VerifyTotal() error {
	if sum := p.sumItems(); !sum.Equal(p.TotalAmount) {
		return shared.NewDomainError(shared.CodeDataIntegrity,
			fmt.Sprintf("purchase %d total %s does not match item sum %s", p.ID, p.TotalAmount, sum))
	}
	return nil
}

// ItemCount returns the number of units across all lines
func (p *Purchase) ItemCount() int64 {
	var n int64
	for _, item := range p.Items {
		n += item.Quantity
	}
	return n
}

// MarkPlaced records the placement event once the store has assigned an ID
func (p *Purchase) MarkPlaced() {
	p.AddDomainEvent(NewPurchasePlacedEvent(p))
}

// Approve moves a pending purchase to processing. When the re-derived profile
// check reports missing fields the purchase is cancelled instead.
func (p *Purchase) Approve(missingFields []string) error {
	to, err := NextStatus(p.Status, ActionApprove)
	if err != nil {
		return err
	}
	if len(missingFields) > 0 {
		return p.cancel(ActionApprove, CancelReasonIncompleteProfile, missingFields)
	}
	p.moveTo(to)
	p.AddDomainEvent(NewPurchaseApprovedEvent(p))
	return nil
}

// Reject cancels a pending or processing purchase on the operator's behalf
func (p *Purchase) Reject() error {
	if _, err := NextStatus(p.Status, ActionReject); err != nil {
		return err
	}
	return p.cancel(ActionReject, CancelReasonRejected, nil)
}

// Advance hands a processing purchase to the carrier
func (p *Purchase) Advance(trackingNumber string, expectedDelivery *time.Time) error {
	to, err := NextStatus(p.Status, ActionAdvance)
	if err != nil {
		return err
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Tracking number is required to advance a purchase")
	}
	p.moveTo(to)
	p.AddDomainEvent(NewPurchaseShippedEvent(p, trackingNumber, expectedDelivery))
	return nil
}

// Complete marks a delivering purchase as received
func (p *Purchase) Complete() error {
	to, err := NextStatus(p.Status, ActionComplete)
	if err != nil {
		return err
	}
	p.moveTo(to)
	p.AddDomainEvent(NewPurchaseCompletedEvent(p))
	return nil
}

// Cancel is the customer's own cancellation, legal only while pending
func (p *Purchase) Cancel() error {
	if _, err := NextStatus(p.Status, ActionCancel); err != nil {
		return err
	}
	return p.cancel(ActionCancel, CancelReasonCustomer, nil)
}

// cancel is the single path into StatusCancelled. Its event carries the
// line items so the stock held since checkout can be given back.
func (p *Purchase) cancel(action Action, reason string, missingFields []string) error {
	from := p.Status
	if from.IsTerminal() {
		return NewInvalidTransitionError(from, action)
	}
	p.moveTo(StatusCancelled)
	p.AddDomainEvent(NewPurchaseCancelledEvent(p, from, action, reason, missingFields))
	return nil
}

func (p *Purchase) moveTo(to Status) {
	p.Status = to
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
