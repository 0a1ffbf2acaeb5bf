package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchase(t *testing.T, userID uuid.UUID) *order.Purchase {
	t.Helper()
	a, err := order.NewPurchaseItem(1, 2, decimal.RequireFromString("150.50"))
	require.NoError(t, err)
	b, err := order.NewPurchaseItem(2, 1, decimal.NewFromInt(99))
	require.NoError(t, err)
	addressID := int64(5)
	p, err := order.NewPurchase(userID, &addressID, order.TransactionDetails{
		RecipientName: "Juan Dela Cruz",
		Address:       "1 Rizal St, Quezon City",
		Phone:         "09171234567",
	}, []order.PurchaseItem{a, b})
	require.NoError(t, err)
	return p
}

func TestGormPurchaseRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseRepository(setupTestDB(t))
	userID := uuid.New()
	p := newTestPurchase(t, userID)

	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)
	for _, item := range p.Items {
		assert.NotZero(t, item.ID)
		assert.Equal(t, p.ID, item.PurchaseID)
	}

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, userID, found.UserID)
	assert.Equal(t, order.StatusPending, found.Status)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("400")))
	require.Len(t, found.Items, 2)
	assert.Equal(t, int64(1), found.Items[0].ProductID)
	assert.True(t, found.Items[0].PriceAtTime.Equal(decimal.RequireFromString("150.50")))
	assert.Equal(t, "Juan Dela Cruz", found.Details.RecipientName)
	assert.Equal(t, int64(5), *found.AddressID)
	assert.NoError(t, found.VerifyTotal())

	t.Run("persisted purchase cannot be created twice", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, p))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 12345)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormPurchaseRepository_CompareAndSetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseRepository(setupTestDB(t))
	p := newTestPurchase(t, uuid.New())
	require.NoError(t, repo.Create(ctx, p))

	applied, err := repo.CompareAndSetStatus(ctx, p.ID, order.StatusPending, order.StatusProcessing, time.Now())
	require.NoError(t, err)
	assert.True(t, applied)

	// A second actor still holding "pending" loses.
	applied, err = repo.CompareAndSetStatus(ctx, p.ID, order.StatusPending, order.StatusCancelled, time.Now())
	require.NoError(t, err)
	assert.False(t, applied)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, found.Status)
	assert.Equal(t, 2, found.Version)
}

func TestGormPurchaseRepository_Listing(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPurchaseRepository(setupTestDB(t))
	owner := uuid.New()
	other := uuid.New()

	var ids []int64
	for i := 0; i < 3; i++ {
		p := newTestPurchase(t, owner)
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}
	require.NoError(t, repo.Create(ctx, newTestPurchase(t, other)))
	_, err := repo.CompareAndSetStatus(ctx, ids[0], order.StatusPending, order.StatusCancelled, time.Now())
	require.NoError(t, err)

	t.Run("lists only the owner's purchases", func(t *testing.T) {
		list, total, err := repo.FindByUserID(ctx, owner, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, list, 3)
		for _, p := range list {
			assert.Equal(t, owner, p.UserID)
			assert.Len(t, p.Items, 2)
		}
	})

	t.Run("status filter and paging", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = order.StatusPending
		filter.PageSize = 1

		list, total, err := repo.FindByUserID(ctx, owner, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 1)
	})

	t.Run("status queue", func(t *testing.T) {
		list, total, err := repo.FindByStatus(ctx, order.StatusCancelled, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, ids[0], list[0].ID)
	})

	t.Run("counts every status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), counts[order.StatusPending])
		assert.Equal(t, int64(1), counts[order.StatusCancelled])
		assert.Equal(t, int64(0), counts[order.StatusCompleted])
		assert.Len(t, counts, len(order.AllStatuses))
	})
}

func TestGormPurchaseRepository_UnknownStatusIsDataIntegrity(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormPurchaseRepository(db)
	p := newTestPurchase(t, uuid.New())
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, db.Model(&models.PurchaseModel{}).Where("id = ?", p.ID).Update("status", "shipped").Error)

	_, err := repo.FindByID(ctx, p.ID)
	assert.True(t, errors.Is(err, shared.ErrDataIntegrity))
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	invRepo := NewGormInventoryRepository(db)
	seedStock(t, invRepo, 1, 5)
	seedStock(t, invRepo, 2, 0)
	scope := NewGormTransactionScope(db)

	err := scope.Execute(ctx, func(repos apporder.TransactionalRepositories) error {
		if err := repos.InventoryRepo().Reserve(ctx, 1, 2); err != nil {
			return err
		}
		return repos.InventoryRepo().Reserve(ctx, 2, 1)
	})

	var stockErr *inventory.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	record, err := invRepo.FindByProductID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), record.Quantity, "first reservation must be rolled back")
}

func TestGormTransactionScope_Commits(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	invRepo := NewGormInventoryRepository(db)
	seedStock(t, invRepo, 1, 5)
	seedStock(t, invRepo, 2, 5)
	scope := NewGormTransactionScope(db)
	p := newTestPurchase(t, uuid.New())

	err := scope.Execute(ctx, func(repos apporder.TransactionalRepositories) error {
		for _, item := range p.Items {
			if err := repos.InventoryRepo().Reserve(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return repos.PurchaseRepo().Create(ctx, p)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.PurchaseModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	record, err := invRepo.FindByProductID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), record.Quantity)
}

func TestGormPurchaseRepository_CompareAndSetSQLShape(t *testing.T) {
	db, mock, mockDB := newMockPostgresDB(t)
	defer mockDB.Close()
	repo := NewGormPurchaseRepository(db)

	mock.ExpectExec(`UPDATE "purchases" SET "status"=\$1,"updated_at"=\$2,"version"=version \+ 1 WHERE id = \$3 AND status = \$4`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.CompareAndSetStatus(context.Background(), 9, order.StatusPending, order.StatusCancelled, time.Now())

	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
