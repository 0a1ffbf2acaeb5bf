package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// PostalFields are the structured, user-editable parts of an address
type PostalFields struct {
	Street     string
	Barangay   string
	City       string
	Province   string
	PostalCode string
}

// Address is a saved delivery address. RecipientName always mirrors the
// owning profile and is never edited directly.
type Address struct {
	shared.BaseEntity
	UserID uuid.UUID
	PostalFields
	RecipientName string
	IsDefault     bool
}

// NewAddress creates an unsaved address for a user
func NewAddress(userID uuid.UUID, fields PostalFields, recipientName string) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "User ID cannot be empty")
	}
	fields = fields.normalized()
	if err := fields.validate(); err != nil {
		return nil, err
	}
	return &Address{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		PostalFields:  fields,
		RecipientName: strings.TrimSpace(recipientName),
	}, nil
}

// UpdateFields replaces the postal fields
func (a *Address) UpdateFields(fields PostalFields) error {
	fields = fields.normalized()
	if err := fields.validate(); err != nil {
		return err
	}
	a.PostalFields = fields
	a.UpdatedAt = time.Now()
	return nil
}

// MirrorRecipient copies the profile's full name onto the address
func (a *Address) MirrorRecipient(p *Profile) {
	a.RecipientName = p.FullName()
	a.UpdatedAt = time.Now()
}

// BelongsTo reports whether the address is owned by userID
func (a *Address) BelongsTo(userID uuid.UUID) bool {
	return a.UserID == userID
}

// Format renders the address as a single line for snapshots
func (a *Address) Format() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.Barangay, a.City, a.Province, a.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (f PostalFields) normalized() PostalFields {
	return PostalFields{
		Street:     strings.TrimSpace(f.Street),
		Barangay:   strings.TrimSpace(f.Barangay),
		City:       strings.TrimSpace(f.City),
		Province:   strings.TrimSpace(f.Province),
		PostalCode: strings.TrimSpace(f.PostalCode),
	}
}

func (f PostalFields) validate() error {
	if f.Street == "" || f.City == "" {
		return shared.NewDomainError(shared.CodeValidationFailed, "Street and city are required")
	}
	return nil
}

// SelectDefault picks the effective address from a user's address book:
// the flagged default, otherwise the first by ID, otherwise nil.
func SelectDefault(addresses []Address) *Address {
	var first *Address
	for i := range addresses {
		if addresses[i].IsDefault {
			return &addresses[i]
		}
		if first == nil || addresses[i].ID < first.ID {
			first = &addresses[i]
		}
	}
	return first
}
