// Package customer resolves profiles and delivery addresses for the order flow
// and serves the customer's address book.
package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CheckoutAddress is the address bound to a new purchase and its snapshot
type CheckoutAddress struct {
	AddressID int64
	Details   order.TransactionDetails
}

// AddressResolver answers which address and contact details an order uses
type AddressResolver struct {
	profileRepo customer.ProfileRepository
	addressRepo customer.AddressRepository
	logger      *zap.Logger
}

// NewAddressResolver creates a new AddressResolver
func NewAddressResolver(
	profileRepo customer.ProfileRepository,
	addressRepo customer.AddressRepository,
	logger *zap.Logger,
) *AddressResolver {
	return &AddressResolver{
		profileRepo: profileRepo,
		addressRepo: addressRepo,
		logger:      logger,
	}
}

// loadProfile returns the stored profile, or an empty one for users who
// have never saved theirs.
func (r *AddressResolver) loadProfile(ctx context.Context, userID uuid.UUID) (*customer.Profile, error) {
	profile, err := r.profileRepo.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return customer.NewProfile(userID)
	}
	return nil, fmt.Errorf("failed to load profile: %w", err)
}

// DefaultAddress returns the user's default address, else their first
// address by ID, else nil.
func (r *AddressResolver) DefaultAddress(ctx context.Context, userID uuid.UUID) (*customer.Address, error) {
	addresses, err := r.addressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}
	return customer.SelectDefault(addresses), nil
}

// RequireCompleteProfile fails with INCOMPLETE_PROFILE when the user's
// name or phone is missing.
func (r *AddressResolver) RequireCompleteProfile(ctx context.Context, userID uuid.UUID) error {
	profile, err := r.loadProfile(ctx, userID)
	if err != nil {
		return err
	}
	if missing := profile.MissingFields(); len(missing) > 0 {
		return customer.NewIncompleteProfileError(missing...)
	}
	return nil
}

// ResolveForCheckout picks the delivery address for a new purchase and
// snapshots it together with the profile's contact details.
func (r *AddressResolver) ResolveForCheckout(ctx context.Context, userID uuid.UUID, addressID *int64) (*CheckoutAddress, error) {
	profile, err := r.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var address *customer.Address
	if addressID != nil {
		address, err = r.addressRepo.FindByID(ctx, *addressID)
		if err != nil {
			return nil, err
		}
		if !address.BelongsTo(userID) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Address not found")
		}
	} else {
		address, err = r.DefaultAddress(ctx, userID)
		if err != nil {
			return nil, err
		}
		if address == nil {
			return nil, customer.NewIncompleteProfileError(customer.FieldAddress)
		}
	}

	recipient := address.RecipientName
	if recipient == "" {
		recipient = profile.FullName()
	}
	return &CheckoutAddress{
		AddressID: address.ID,
		Details: order.TransactionDetails{
			RecipientName: recipient,
			Address:       address.Format(),
			Phone:         profile.Phone,
		},
	}, nil
}

// ApprovalCheck re-derives what blocks a purchase from being approved:
// the owner's missing profile fields plus "address" when the purchase has
// no delivery snapshot and the owner has no address to fall back on.
// Address book edits after checkout never block a snapshotted purchase.
func (r *AddressResolver) ApprovalCheck(ctx context.Context, p *order.Purchase) ([]string, error) {
	profile, err := r.loadProfile(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	missing := profile.MissingFields()

	hasAddress, err := r.hasDeliveryAddress(ctx, p)
	if err != nil {
		return nil, err
	}
	if !hasAddress {
		missing = append(missing, customer.FieldAddress)
	}
	return missing, nil
}

func (r *AddressResolver) hasDeliveryAddress(ctx context.Context, p *order.Purchase) (bool, error) {
	if p.Details.Address != "" {
		return true, nil
	}
	if p.AddressID != nil {
		address, err := r.addressRepo.FindByID(ctx, *p.AddressID)
		switch {
		case err == nil:
			if address.BelongsTo(p.UserID) && address.Format() != "" {
				return true, nil
			}
		case errors.Is(err, shared.ErrNotFound):
		default:
			return false, fmt.Errorf("failed to load bound address: %w", err)
		}
	}
	fallback, err := r.DefaultAddress(ctx, p.UserID)
	if err != nil {
		return false, err
	}
	return fallback != nil && fallback.Format() != "", nil
}
