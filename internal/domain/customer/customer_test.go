package customer

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_MissingFields(t *testing.T) {
	userID := uuid.New()

	t.Run("complete profile has no missing fields", func(t *testing.T) {
		p, err := NewProfile(userID)
		require.NoError(t, err)
		p.Update("Juan", "Dela Cruz", "09171234567")

		assert.Empty(t, p.MissingFields())
		assert.True(t, p.IsComplete())
		assert.Equal(t, "Juan Dela Cruz", p.FullName())
	})

	t.Run("reports every blank field", func(t *testing.T) {
		p, _ := NewProfile(userID)
		p.Update("Juan", "  ", "")

		assert.Equal(t, []string{FieldLastName, FieldPhone}, p.MissingFields())
		assert.False(t, p.IsComplete())
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := NewProfile(uuid.Nil)

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})
}

func TestNewAddress(t *testing.T) {
	userID := uuid.New()

	t.Run("trims fields and keeps recipient", func(t *testing.T) {
		a, err := NewAddress(userID, PostalFields{Street: " 12 Rizal St ", City: "Makati", PostalCode: "1200"}, "Juan Dela Cruz")

		require.NoError(t, err)
		assert.Equal(t, "12 Rizal St", a.Street)
		assert.Equal(t, "12 Rizal St, Makati, 1200", a.Format())
		assert.Equal(t, "Juan Dela Cruz", a.RecipientName)
		assert.True(t, a.IsNew())
		assert.True(t, a.BelongsTo(userID))
	})

	t.Run("requires street and city", func(t *testing.T) {
		_, err := NewAddress(userID, PostalFields{Street: "x"}, "")

		assert.True(t, shared.HasCode(err, shared.CodeValidationFailed))
	})
}

func TestAddress_MirrorRecipient(t *testing.T) {
	userID := uuid.New()
	a, _ := NewAddress(userID, PostalFields{Street: "1 Main", City: "Cebu"}, "Old Name")
	p, _ := NewProfile(userID)
	p.Update("Maria", "Santos", "0917")

	a.MirrorRecipient(p)

	assert.Equal(t, "Maria Santos", a.RecipientName)
}

func TestSelectDefault(t *testing.T) {
	t.Run("returns flagged default", func(t *testing.T) {
		addrs := []Address{
			{BaseEntity: shared.BaseEntity{ID: 1}},
			{BaseEntity: shared.BaseEntity{ID: 2}, IsDefault: true},
		}

		assert.Equal(t, int64(2), SelectDefault(addrs).ID)
	})

	t.Run("falls back to lowest id", func(t *testing.T) {
		addrs := []Address{
			{BaseEntity: shared.BaseEntity{ID: 9}},
			{BaseEntity: shared.BaseEntity{ID: 4}},
		}

		assert.Equal(t, int64(4), SelectDefault(addrs).ID)
	})

	t.Run("returns nil for empty book", func(t *testing.T) {
		assert.Nil(t, SelectDefault(nil))
	})
}

func TestIncompleteProfileError(t *testing.T) {
	err := NewIncompleteProfileError(FieldPhone, FieldAddress)

	assert.Equal(t, "incomplete profile: missing phone, address", err.Error())
	assert.True(t, shared.HasCode(err, shared.CodeIncompleteProfile))

	var target *IncompleteProfileError
	require.True(t, errors.As(error(err), &target))
	assert.Equal(t, []string{FieldPhone, FieldAddress}, target.Missing)

	domainErr, _ := shared.AsDomainError(err)
	assert.Equal(t, []string{FieldPhone, FieldAddress}, domainErr.Details["missing_fields"])
}
