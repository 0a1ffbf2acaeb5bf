package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// IsValid checks if the status is known
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product is the read-only catalog view the order flow prices carts against.
// Products are managed by the catalog admin, outside this service.
type Product struct {
	shared.BaseEntity
	Name   string
	Price  decimal.Decimal
	Status ProductStatus
}

// NewProduct creates an active product
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Product price cannot be negative")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Status:     ProductStatusActive,
	}, nil
}

// IsPurchasable reports whether the product can be added to a purchase
func (p *Product) IsPurchasable() bool {
	return p.Status == ProductStatusActive
}
