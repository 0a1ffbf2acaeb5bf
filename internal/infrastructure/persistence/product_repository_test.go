package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	p, err := catalog.NewProduct("Banig Mat", decimal.RequireFromString("350.00"))
	require.NoError(t, err)
	model := models.ProductModelFromDomain(p)
	require.NoError(t, db.Create(model).Error)

	found, err := repo.FindByID(ctx, model.ID)
	require.NoError(t, err)
	assert.Equal(t, "Banig Mat", found.Name)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(350)))
	assert.True(t, found.IsPurchasable())

	_, err = repo.FindByID(ctx, model.ID+100)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	byID, err := repo.FindByIDs(ctx, []int64{model.ID, model.ID + 100})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Contains(t, byID, model.ID)
}
