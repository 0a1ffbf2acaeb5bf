package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	customerapp "github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerHandler_Profile(t *testing.T) {
	f := newAPIFixture(t)

	code, env := call[customerapp.ProfileResponse](f, &f.customer, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, env.Data.IsComplete)
	assert.Equal(t, []string{"first_name", "last_name", "phone"}, env.Data.MissingFields)

	code, env = call[customerapp.ProfileResponse](f, &f.customer, http.MethodPut, "/profile", map[string]string{
		"first_name": " Ana ", "last_name": "Cruz", "phone": "0917", "email": "ana@example.com",
	})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Data.IsComplete)
	assert.Equal(t, "Ana", env.Data.FirstName)
	assert.Equal(t, "ana@example.com", env.Data.Email)

	code, bad := call[any](f, &f.customer, http.MethodPut, "/profile", map[string]string{
		"first_name": "Ana", "last_name": "Cruz", "phone": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, dto.ErrCodeValidation, bad.Error.Code)
	fields, ok := bad.Error.Details["fields"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "phone", fields[0].(map[string]any)["field"])
}

func TestCustomerHandler_AddressBook(t *testing.T) {
	f := newAPIFixture(t)
	f.completeCustomer()

	code, list := call[[]customerapp.AddressResponse](f, &f.customer, http.MethodGet, "/addresses", nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list.Data, 1)
	first := list.Data[0]
	assert.True(t, first.IsDefault, "first address becomes the default")
	assert.Equal(t, "Maria Santos", first.RecipientName)

	code, created := call[customerapp.AddressResponse](f, &f.customer, http.MethodPost, "/addresses", map[string]any{
		"street": "12 Mabini St", "city": "Quezon City", "postal_code": "1100",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.False(t, created.Data.IsDefault)

	code, def := call[customerapp.AddressResponse](f, &f.customer, http.MethodPost,
		fmt.Sprintf("/addresses/%d/default", created.Data.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, def.Data.IsDefault)

	code, updated := call[customerapp.AddressResponse](f, &f.customer, http.MethodPut,
		fmt.Sprintf("/addresses/%d", first.ID), map[string]any{"street": "46 Rizal Ave", "city": "Manila"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "46 Rizal Ave", updated.Data.Street)
	assert.False(t, updated.Data.IsDefault)

	code, _ = call[any](f, &f.customer, http.MethodPut, "/profile", map[string]string{
		"first_name": "Maria", "last_name": "Reyes", "phone": "09181234567",
	})
	require.Equal(t, http.StatusOK, code)
	_, list = call[[]customerapp.AddressResponse](f, &f.customer, http.MethodGet, "/addresses", nil)
	for _, a := range list.Data {
		assert.Equal(t, "Maria Reyes", a.RecipientName)
	}

	code, _ = call[any](f, &f.customer, http.MethodDelete, fmt.Sprintf("/addresses/%d", created.Data.ID), nil)
	require.Equal(t, http.StatusNoContent, code)
	_, list = call[[]customerapp.AddressResponse](f, &f.customer, http.MethodGet, "/addresses", nil)
	require.Len(t, list.Data, 1)
	assert.True(t, list.Data[0].IsDefault, "remaining address is promoted")
}

func TestCustomerHandler_AddressOwnership(t *testing.T) {
	f := newAPIFixture(t)
	f.completeCustomer()
	_, list := call[[]customerapp.AddressResponse](f, &f.customer, http.MethodGet, "/addresses", nil)
	require.Len(t, list.Data, 1)
	path := fmt.Sprintf("/addresses/%d", list.Data[0].ID)

	stranger := order.NewCustomerActor(uuid.New())
	code, _ := call[any](f, &stranger, http.MethodPut, path, map[string]any{"street": "x", "city": "y"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = call[any](f, &stranger, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = call[any](f, &stranger, http.MethodPost, path+"/default", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, empty := call[[]customerapp.AddressResponse](f, &stranger, http.MethodGet, "/addresses", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)

	code, _ = call[any](f, &f.customer, http.MethodPost, "/addresses", map[string]any{"city": "Manila"})
	assert.Equal(t, http.StatusBadRequest, code)
}
