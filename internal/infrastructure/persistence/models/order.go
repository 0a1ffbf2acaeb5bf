package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// PurchaseModel is the persistence model for the Purchase aggregate root.
type PurchaseModel struct {
	AggregateModel
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	AddressID   *int64          `gorm:"index"`
	// Associations
	Items   []PurchaseItemModel      `gorm:"foreignKey:PurchaseID;references:ID"`
	Details *TransactionDetailsModel `gorm:"foreignKey:PurchaseID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the persistence model to a domain Purchase.
// Unknown status values are reported, not coerced.
func (m *PurchaseModel) ToDomain() (*order.Purchase, error) {
	status, err := order.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	p := &order.Purchase{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		TotalAmount:       m.TotalAmount,
		Status:            status,
		AddressID:         m.AddressID,
		Items:             make([]order.PurchaseItem, len(m.Items)),
	}
	for i := range m.Items {
		p.Items[i] = m.Items[i].ToDomain()
	}
	if m.Details != nil {
		p.Details = m.Details.ToDomain()
	}
	return p, nil
}

// FromDomain populates the persistence model from a domain Purchase.
func (m *PurchaseModel) FromDomain(p *order.Purchase) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.UserID = p.UserID
	m.TotalAmount = p.TotalAmount
	m.Status = p.Status.String()
	m.AddressID = p.AddressID
	m.Items = make([]PurchaseItemModel, len(p.Items))
	for i := range p.Items {
		m.Items[i].FromDomain(&p.Items[i])
	}
	m.Details = &TransactionDetailsModel{PurchaseID: p.ID}
	m.Details.FromDomain(p.Details)
}

// PurchaseModelFromDomain creates a new persistence model from a domain Purchase.
func PurchaseModelFromDomain(p *order.Purchase) *PurchaseModel {
	m := &PurchaseModel{}
	m.FromDomain(p)
	return m
}

// PurchaseItemModel is the persistence model for a purchase line.
type PurchaseItemModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	PurchaseID  int64           `gorm:"not null;index"`
	ProductID   int64           `gorm:"not null;index"`
	Quantity    int64           `gorm:"not null"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}

// ToDomain converts the persistence model to a domain PurchaseItem.
func (m *PurchaseItemModel) ToDomain() order.PurchaseItem {
	return order.PurchaseItem{
		ID:          m.ID,
		PurchaseID:  m.PurchaseID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		PriceAtTime: m.PriceAtTime,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseItem.
func (m *PurchaseItemModel) FromDomain(i *order.PurchaseItem) {
	m.ID = i.ID
	m.PurchaseID = i.PurchaseID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
	m.PriceAtTime = i.PriceAtTime
	m.CreatedAt = i.CreatedAt
}

// TransactionDetailsModel is the shipping snapshot taken at checkout.
type TransactionDetailsModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	PurchaseID    int64  `gorm:"not null;uniqueIndex"`
	RecipientName string `gorm:"type:varchar(200);not null"`
	Address       string `gorm:"type:text;not null"`
	Phone         string `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (TransactionDetailsModel) TableName() string {
	return "transaction_details"
}

// ToDomain converts the persistence model to domain TransactionDetails.
func (m *TransactionDetailsModel) ToDomain() order.TransactionDetails {
	return order.TransactionDetails{
		RecipientName: m.RecipientName,
		Address:       m.Address,
		Phone:         m.Phone,
	}
}

// FromDomain populates the persistence model from domain TransactionDetails.
func (m *TransactionDetailsModel) FromDomain(d order.TransactionDetails) {
	m.RecipientName = d.RecipientName
	m.Address = d.Address
	m.Phone = d.Phone
}
