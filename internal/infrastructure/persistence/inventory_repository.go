package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByProductID finds the stock record of a product
func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID int64) (*inventory.InventoryRecord, error) {
	var model models.InventoryRecordModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProductIDs loads stock records for several products at once
func (r *GormInventoryRepository) FindByProductIDs(ctx context.Context, productIDs []int64) (map[int64]*inventory.InventoryRecord, error) {
	result := make(map[int64]*inventory.InventoryRecord, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var rows []models.InventoryRecordModel
	if err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ProductID] = rows[i].ToDomain()
	}
	return result, nil
}

// Reserve decrements stock with a single conditional UPDATE. When no row
// matches, the current level is read back for the error details.
func (r *GormInventoryRepository) Reserve(ctx context.Context, productID, qty int64) error {
	if err := inventory.ValidateQuantity(qty); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&models.InventoryRecordModel{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("reserve stock for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var available int64
	record, err := r.FindByProductID(ctx, productID)
	switch {
	case err == nil:
		available = record.Quantity
	case !errors.Is(err, shared.ErrNotFound):
		return err
	}
	return inventory.NewInsufficientStockError(productID, qty, available)
}

// Restore increments stock unconditionally
func (r *GormInventoryRepository) Restore(ctx context.Context, productID, qty int64) error {
	if err := inventory.ValidateQuantity(qty); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&models.InventoryRecordModel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("restore stock for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeNotFound,
			fmt.Sprintf("no inventory record for product %d", productID))
	}
	return nil
}

// Save creates or overwrites a stock record
func (r *GormInventoryRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	model := models.InventoryRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(model).Error
}

var _ inventory.InventoryRepository = (*GormInventoryRepository)(nil)
