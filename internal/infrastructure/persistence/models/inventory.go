package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/inventory"
)

// InventoryRecordModel is the persistence model for a product's stock level.
// The check constraint backs the conditional decrement.
type InventoryRecordModel struct {
	ProductID int64     `gorm:"primaryKey;autoIncrement:false"`
	Quantity  int64     `gorm:"not null;default:0;check:chk_inventory_quantity_non_negative,quantity >= 0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryRecordModel) TableName() string {
	return "inventory_records"
}

// ToDomain converts the persistence model to a domain InventoryRecord.
func (m *InventoryRecordModel) ToDomain() *inventory.InventoryRecord {
	return &inventory.InventoryRecord{
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UpdatedAt: m.UpdatedAt,
	}
}

// InventoryRecordModelFromDomain creates a persistence model from a domain InventoryRecord.
func InventoryRecordModelFromDomain(r *inventory.InventoryRecord) *InventoryRecordModel {
	return &InventoryRecordModel{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UpdatedAt: r.UpdatedAt,
	}
}
