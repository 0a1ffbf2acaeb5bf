package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
)

// ProfileResponse represents a customer profile in API responses
type ProfileResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	IsComplete    bool      `json:"is_complete"`
	MissingFields []string  `json:"missing_fields"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpdateProfileRequest replaces the profile's contact fields
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required,notblank,max=100"`
	LastName  string `json:"last_name" binding:"required,notblank,max=100"`
	Phone     string `json:"phone" binding:"required,notblank,max=32"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
}

// AddressRequest carries the editable postal fields of an address
type AddressRequest struct {
	Street     string `json:"street" binding:"required,notblank,max=255"`
	Barangay   string `json:"barangay" binding:"max=100"`
	City       string `json:"city" binding:"required,notblank,max=100"`
	Province   string `json:"province" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
}

// CreateAddressRequest adds an address to the book
type CreateAddressRequest struct {
	AddressRequest
	IsDefault bool `json:"is_default"`
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID            int64     `json:"id"`
	Street        string    `json:"street"`
	Barangay      string    `json:"barangay"`
	City          string    `json:"city"`
	Province      string    `json:"province"`
	PostalCode    string    `json:"postal_code"`
	RecipientName string    `json:"recipient_name"`
	IsDefault     bool      `json:"is_default"`
	Formatted     string    `json:"formatted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r AddressRequest) fields() customer.PostalFields {
	return customer.PostalFields{
		Street:     r.Street,
		Barangay:   r.Barangay,
		City:       r.City,
		Province:   r.Province,
		PostalCode: r.PostalCode,
	}
}

// ToProfileResponse converts a domain profile to a response
func ToProfileResponse(p *customer.Profile) ProfileResponse {
	missing := p.MissingFields()
	return ProfileResponse{
		UserID:        p.UserID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		Email:         p.Email,
		IsComplete:    len(missing) == 0,
		MissingFields: missing,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToAddressResponse converts a domain address to a response
func ToAddressResponse(a *customer.Address) AddressResponse {
	return AddressResponse{
		ID:            a.ID,
		Street:        a.Street,
		Barangay:      a.Barangay,
		City:          a.City,
		Province:      a.Province,
		PostalCode:    a.PostalCode,
		RecipientName: a.RecipientName,
		IsDefault:     a.IsDefault,
		Formatted:     a.Format(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToAddressResponses converts a slice of addresses
func ToAddressResponses(addresses []customer.Address) []AddressResponse {
	result := make([]AddressResponse, len(addresses))
	for i := range addresses {
		result[i] = ToAddressResponse(&addresses[i])
	}
	return result
}
