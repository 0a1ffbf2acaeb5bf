package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by its ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id int64) (*customer.Address, error) {
	var model models.AddressModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID returns the user's addresses ordered by ID
func (r *GormAddressRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]customer.Address, error) {
	var rows []models.AddressModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	addresses := make([]customer.Address, len(rows))
	for i := range rows {
		addresses[i] = *rows[i].ToDomain()
	}
	return addresses, nil
}

// Save inserts or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, address *customer.Address) error {
	model := models.AddressModelFromDomain(address)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("save address: %w", err)
	}
	address.ID = model.ID
	return nil
}

// Delete removes an address and, when it held the default flag, promotes
// the lowest remaining ID inside the same transaction
func (r *GormAddressRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) (int64, error) {
	var promoted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.AddressModel
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&models.AddressModel{}, target.ID).Error; err != nil {
			return err
		}
		if !target.IsDefault {
			return nil
		}

		var next models.AddressModel
		err := tx.Where("user_id = ?", userID).Order("id ASC").Limit(1).Find(&next).Error
		if err != nil || next.ID == 0 {
			return err
		}
		if err := tx.Model(&models.AddressModel{}).
			Where("id = ?", next.ID).
			Updates(map[string]any{"is_default": true, "updated_at": time.Now()}).Error; err != nil {
			return fmt.Errorf("promote default address: %w", err)
		}
		promoted = next.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return promoted, nil
}

// SetDefault moves the default flag to addressID in one transaction
func (r *GormAddressRepository) SetDefault(ctx context.Context, userID uuid.UUID, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.AddressModel{}).
			Where("user_id = ? AND is_default = ? AND id <> ?", userID, true, addressID).
			Updates(map[string]any{"is_default": false, "updated_at": now}).Error; err != nil {
			return err
		}
		result := tx.Model(&models.AddressModel{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Updates(map[string]any{"is_default": true, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// UpdateRecipientName rewrites the mirrored name on all of a user's addresses
func (r *GormAddressRepository) UpdateRecipientName(ctx context.Context, userID uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Model(&models.AddressModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"recipient_name": name, "updated_at": time.Now()}).Error
}

var _ customer.AddressRepository = (*GormAddressRepository)(nil)
