package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
)

// ProfileModel is the persistence model for a customer profile.
type ProfileModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"type:varchar(100);not null;default:''"`
	LastName  string    `gorm:"type:varchar(100);not null;default:''"`
	Phone     string    `gorm:"type:varchar(30);not null;default:''"`
	Email     string    `gorm:"type:varchar(200);not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile.
func (m *ProfileModel) ToDomain() *customer.Profile {
	return &customer.Profile{
		UserID:    m.UserID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ProfileModelFromDomain creates a persistence model from a domain Profile.
func ProfileModelFromDomain(p *customer.Profile) *ProfileModel {
	return &ProfileModel{
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// AddressModel is the persistence model for an address book entry.
type AddressModel struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Street        string    `gorm:"type:varchar(200);not null"`
	Barangay      string    `gorm:"type:varchar(100);not null;default:''"`
	City          string    `gorm:"type:varchar(100);not null"`
	Province      string    `gorm:"type:varchar(100);not null;default:''"`
	PostalCode    string    `gorm:"type:varchar(20);not null;default:''"`
	RecipientName string    `gorm:"type:varchar(200);not null;default:''"`
	IsDefault     bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address.
func (m *AddressModel) ToDomain() *customer.Address {
	return &customer.Address{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		PostalFields: customer.PostalFields{
			Street:     m.Street,
			Barangay:   m.Barangay,
			City:       m.City,
			Province:   m.Province,
			PostalCode: m.PostalCode,
		},
		RecipientName: m.RecipientName,
		IsDefault:     m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain Address.
func (m *AddressModel) FromDomain(a *customer.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.UserID = a.UserID
	m.Street = a.Street
	m.Barangay = a.Barangay
	m.City = a.City
	m.Province = a.Province
	m.PostalCode = a.PostalCode
	m.RecipientName = a.RecipientName
	m.IsDefault = a.IsDefault
}

// AddressModelFromDomain creates a persistence model from a domain Address.
func AddressModelFromDomain(a *customer.Address) *AddressModel {
	m := &AddressModel{}
	m.FromDomain(a)
	return m
}
