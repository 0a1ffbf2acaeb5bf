package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_Checkout(t *testing.T) {
	f := newAPIFixture(t)
	f.seedProduct(1, 5, "120.50")
	f.completeCustomer()

	purchase := f.placeOrder(1, 2)

	assert.Equal(t, "pending", purchase.Status)
	assert.Equal(t, "241", purchase.TotalAmount.String())
	assert.Equal(t, []string{"cancel"}, purchase.AvailableActions)
	assert.Equal(t, "Maria Santos", purchase.Details.RecipientName)
	assert.Equal(t, int64(3), f.stock(1))
}

func TestOrderHandler_CheckoutErrors(t *testing.T) {
	f := newAPIFixture(t)
	f.seedProduct(1, 1, "10")

	t.Run("incomplete profile", func(t *testing.T) {
		code, env := call[any](f, &f.customer, http.MethodPost, "/checkout", map[string]any{
			"items": []map[string]int64{{"product_id": 1, "quantity": 1}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "INCOMPLETE_PROFILE", env.Error.Code)
		assert.Contains(t, env.Error.Details["missing_fields"], "phone")
	})

	f.completeCustomer()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"empty cart", map[string]any{"items": []any{}}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"zero quantity", map[string]any{"items": []map[string]int64{{"product_id": 1, "quantity": 0}}}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"malformed body", `{"items":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown product", map[string]any{"items": []map[string]int64{{"product_id": 99, "quantity": 1}}}, http.StatusNotFound, "NOT_FOUND"},
		{"insufficient stock", map[string]any{"items": []map[string]int64{{"product_id": 1, "quantity": 2}}}, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := call[any](f, &f.customer, http.MethodPost, "/checkout", tt.body)
			assert.Equal(t, tt.wantStatus, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
	assert.Equal(t, int64(1), f.stock(1))

	t.Run("anonymous", func(t *testing.T) {
		code, _ := call[any](f, nil, http.MethodPost, "/checkout", map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestOrderHandler_GetAndList(t *testing.T) {
	f := newAPIFixture(t)
	f.seedProduct(1, 5, "10")
	f.completeCustomer()
	purchase := f.placeOrder(1, 1)
	path := fmt.Sprintf("/orders/%d", purchase.ID)

	code, env := call[orderapp.PurchaseResponse](f, &f.customer, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, purchase.ID, env.Data.ID)

	stranger := order.NewCustomerActor(uuid.New())
	code, _ = call[any](f, &stranger, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, code, "other customers cannot see the purchase")

	code, env = call[orderapp.PurchaseResponse](f, &f.admin, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.ElementsMatch(t, []string{"approve", "reject", "cancel"}, env.Data.AvailableActions)

	code, list := call[[]orderapp.PurchaseListItemResponse](f, &f.customer, http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, list.Data, 1)
	require.NotNil(t, list.Meta)
	assert.Equal(t, int64(1), list.Meta.Total)

	code, list = call[[]orderapp.PurchaseListItemResponse](f, &stranger, http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, list.Data)

	code, _ = call[any](f, &f.customer, http.MethodGet, "/orders?status=shipped", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestOrderHandler_Cancel(t *testing.T) {
	f := newAPIFixture(t)
	f.seedProduct(1, 5, "10")
	f.completeCustomer()
	purchase := f.placeOrder(1, 3)
	path := fmt.Sprintf("/orders/%d/cancel", purchase.ID)

	stranger := order.NewCustomerActor(uuid.New())
	code, _ := call[any](f, &stranger, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := call[orderapp.PurchaseResponse](f, &f.customer, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", env.Data.Status)
	assert.Empty(t, env.Data.AvailableActions)
	assert.Equal(t, int64(5), f.stock(1))

	code, errEnv := call[any](f, &f.customer, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", errEnv.Error.Code)
	assert.Equal(t, int64(5), f.stock(1))
}
