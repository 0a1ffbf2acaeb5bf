package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Profile field names reported by completeness checks
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldPhone     = "phone"
	FieldAddress   = "address"
)

// Profile is the customer-facing identity record. The account itself lives with
// the external auth provider; the profile carries what an order needs.
type Profile struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates an empty profile for a user
func NewProfile(userID uuid.UUID) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "User ID cannot be empty")
	}
	now := time.Now()
	return &Profile{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// FullName returns "First Last", trimmed
func (p *Profile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// MissingFields lists the contact fields an order cannot be placed without
func (p *Profile) MissingFields() []string {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(p.FirstName) == "" {
		missing = append(missing, FieldFirstName)
	}
	if strings.TrimSpace(p.LastName) == "" {
		missing = append(missing, FieldLastName)
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, FieldPhone)
	}
	return missing
}

// IsComplete reports whether MissingFields is empty
func (p *Profile) IsComplete() bool {
	return len(p.MissingFields()) == 0
}

// Update replaces the editable contact fields
func (p *Profile) Update(firstName, lastName, phone string) {
	p.FirstName = strings.TrimSpace(firstName)
	p.LastName = strings.TrimSpace(lastName)
	p.Phone = strings.TrimSpace(phone)
	p.UpdatedAt = time.Now()
}
