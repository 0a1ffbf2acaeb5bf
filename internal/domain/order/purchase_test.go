package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchase(t *testing.T) *Purchase {
	t.Helper()
	a, err := NewPurchaseItem(1, 2, decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	b, err := NewPurchaseItem(2, 3, decimal.RequireFromString("5.50"))
	require.NoError(t, err)

	p, err := NewPurchase(uuid.New(), nil, TransactionDetails{
		RecipientName: "Juan Dela Cruz",
		Address:       "12 Rizal St, Makati",
		Phone:         "09171234567",
	}, []PurchaseItem{a, b})
	require.NoError(t, err)
	p.ID = 100
	return p
}

func TestNewPurchase(t *testing.T) {
	t.Run("computes total from items", func(t *testing.T) {
		p := newTestPurchase(t)

		assert.Equal(t, StatusPending, p.Status)
		assert.True(t, decimal.RequireFromString("56.48").Equal(p.TotalAmount))
		assert.NoError(t, p.VerifyTotal())
		assert.Equal(t, int64(5), p.ItemCount())
	})

	t.Run("requires items", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), nil, TransactionDetails{}, nil)

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})

	t.Run("rejects duplicate products", func(t *testing.T) {
		a, _ := NewPurchaseItem(1, 1, decimal.NewFromInt(1))
		b, _ := NewPurchaseItem(1, 2, decimal.NewFromInt(1))

		_, err := NewPurchase(uuid.New(), nil, TransactionDetails{}, []PurchaseItem{a, b})

		assert.Error(t, err)
	})

	t.Run("rejects invalid item", func(t *testing.T) {
		_, err := NewPurchaseItem(1, 0, decimal.NewFromInt(1))
		assert.True(t, shared.HasCode(err, shared.CodeInvalidQuantity))

		_, err = NewPurchaseItem(1, 1, decimal.NewFromInt(-1))
		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})
}

func TestPurchase_VerifyTotal(t *testing.T) {
	p := newTestPurchase(t)
	p.TotalAmount = decimal.NewFromInt(1)

	err := p.VerifyTotal()

	assert.True(t, shared.HasCode(err, shared.CodeDataIntegrity))
}

func TestPurchase_MarkPlaced(t *testing.T) {
	p := newTestPurchase(t)

	p.MarkPlaced()

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	placed, ok := events[0].(*PurchasePlacedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(100), placed.PurchaseID)
	assert.Equal(t, int64(100), placed.AggregateID())
	assert.Len(t, placed.Items, 2)
}

func TestPurchase_Approve(t *testing.T) {
	t.Run("moves to processing when profile is complete", func(t *testing.T) {
		p := newTestPurchase(t)

		require.NoError(t, p.Approve(nil))

		assert.Equal(t, StatusProcessing, p.Status)
		assert.Equal(t, 2, p.Version)
		require.Len(t, p.GetDomainEvents(), 1)
		assert.Equal(t, EventTypePurchaseApproved, p.GetDomainEvents()[0].EventType())
	})

	t.Run("cancels when profile is incomplete", func(t *testing.T) {
		p := newTestPurchase(t)

		require.NoError(t, p.Approve([]string{"phone"}))

		assert.Equal(t, StatusCancelled, p.Status)
		require.Len(t, p.GetDomainEvents(), 1)
		cancelled, ok := p.GetDomainEvents()[0].(*PurchaseCancelledEvent)
		require.True(t, ok)
		assert.Equal(t, CancelReasonIncompleteProfile, cancelled.Reason)
		assert.Equal(t, []string{"phone"}, cancelled.MissingFields)
		assert.Equal(t, StatusPending, cancelled.PreviousStatus)
		assert.Len(t, cancelled.Items, 2)
	})

	t.Run("fails outside pending", func(t *testing.T) {
		p := newTestPurchase(t)
		require.NoError(t, p.Approve(nil))

		err := p.Approve(nil)

		assert.True(t, shared.HasCode(err, shared.CodeInvalidTransition))
		assert.Equal(t, StatusProcessing, p.Status)
	})
}

func TestPurchase_Reject(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		p := newTestPurchase(t)

		require.NoError(t, p.Reject())

		assert.Equal(t, StatusCancelled, p.Status)
	})

	t.Run("from processing", func(t *testing.T) {
		p := newTestPurchase(t)
		require.NoError(t, p.Approve(nil))
		p.ClearDomainEvents()

		require.NoError(t, p.Reject())

		cancelled := p.GetDomainEvents()[0].(*PurchaseCancelledEvent)
		assert.Equal(t, StatusProcessing, cancelled.PreviousStatus)
		assert.Equal(t, CancelReasonRejected, cancelled.Reason)
	})

	t.Run("not from delivering", func(t *testing.T) {
		p := newTestPurchase(t)
		require.NoError(t, p.Approve(nil))
		require.NoError(t, p.Advance("JT1", nil))

		assert.True(t, shared.HasCode(p.Reject(), shared.CodeInvalidTransition))
	})
}

func TestPurchase_Advance(t *testing.T) {
	t.Run("requires tracking number", func(t *testing.T) {
		p := newTestPurchase(t)
		require.NoError(t, p.Approve(nil))

		err := p.Advance("   ", nil)

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
		assert.Equal(t, StatusProcessing, p.Status)
	})

	t.Run("carries tracking number and eta", func(t *testing.T) {
		p := newTestPurchase(t)
		require.NoError(t, p.Approve(nil))
		p.ClearDomainEvents()
		eta := time.Now().Add(72 * time.Hour)

		require.NoError(t, p.Advance(" JT123 ", &eta))

		assert.Equal(t, StatusDelivering, p.Status)
		shipped := p.GetDomainEvents()[0].(*PurchaseShippedEvent)
		assert.Equal(t, "JT123", shipped.TrackingNumber)
		assert.Equal(t, &eta, shipped.ExpectedDeliveryDate)
	})

	t.Run("second advance is an invalid transition", func(t *testing.T) {
		p := newTestPurchase(t)
		require.NoError(t, p.Approve(nil))
		require.NoError(t, p.Advance("JT123", nil))

		err := p.Advance("JT123", nil)

		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})
}

func TestPurchase_Complete(t *testing.T) {
	p := newTestPurchase(t)
	require.NoError(t, p.Approve(nil))
	require.NoError(t, p.Advance("JT1", nil))

	require.NoError(t, p.Complete())

	assert.Equal(t, StatusCompleted, p.Status)
	assert.True(t, p.Status.IsTerminal())
	assert.Error(t, p.Complete())
	assert.Error(t, p.Cancel())
	assert.Error(t, p.Reject())
}

func TestPurchase_Cancel(t *testing.T) {
	t.Run("customer cancels pending purchase", func(t *testing.T) {
		p := newTestPurchase(t)

		require.NoError(t, p.Cancel())

		cancelled := p.GetDomainEvents()[0].(*PurchaseCancelledEvent)
		assert.Equal(t, CancelReasonCustomer, cancelled.Reason)
		assert.Equal(t, ActionCancel, cancelled.Action)
	})

	t.Run("customer cannot cancel once processing", func(t *testing.T) {
		p := newTestPurchase(t)
		require.NoError(t, p.Approve(nil))

		assert.True(t, shared.HasCode(p.Cancel(), shared.CodeInvalidTransition))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		p := newTestPurchase(t)
		require.NoError(t, p.Cancel())

		assert.Error(t, p.Cancel())
		assert.Error(t, p.Approve(nil))
	})
}
