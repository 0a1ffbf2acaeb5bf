package customer

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository persists customer profiles
type ProfileRepository interface {
	// FindByUserID returns shared.ErrNotFound when the user has no profile
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
}

// AddressRepository persists a user's address book
type AddressRepository interface {
	FindByID(ctx context.Context, id int64) (*Address, error)

	// FindByUserID returns the user's addresses ordered by ID
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]Address, error)

	// Save inserts or updates an address, assigning its ID on insert
	Save(ctx context.Context, address *Address) error

	// Delete removes one of the user's addresses. When it was the default,
	// the remaining address with the lowest ID is promoted in the same
	// transaction and its ID returned; otherwise promoted is 0.
	Delete(ctx context.Context, userID uuid.UUID, id int64) (promoted int64, err error)

	// SetDefault clears the default flag on every other address of the user
	// and sets it on addressID, in one transaction.
	SetDefault(ctx context.Context, userID uuid.UUID, addressID int64) error

	// UpdateRecipientName rewrites the mirrored recipient name on all of a user's addresses
	UpdateRecipientName(ctx context.Context, userID uuid.UUID, name string) error
}
