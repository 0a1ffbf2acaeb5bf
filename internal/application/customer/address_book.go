package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ListAddresses returns the user's addresses ordered by ID
func (r *AddressResolver) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	addresses, err := r.addressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}
	return ToAddressResponses(addresses), nil
}

// GetAddress returns one of the user's addresses
func (r *AddressResolver) GetAddress(ctx context.Context, userID uuid.UUID, addressID int64) (*AddressResponse, error) {
	address, err := r.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	resp := ToAddressResponse(address)
	return &resp, nil
}

// CreateAddress adds an address to the user's book. The first address, or
// one created with IsDefault, becomes the default.
func (r *AddressResolver) CreateAddress(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*AddressResponse, error) {
	profile, err := r.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing, err := r.addressRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}

	address, err := customer.NewAddress(userID, req.fields(), profile.FullName())
	if err != nil {
		return nil, err
	}
	if err := r.addressRepo.Save(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to save address: %w", err)
	}

	if req.IsDefault || len(existing) == 0 {
		if err := r.addressRepo.SetDefault(ctx, userID, address.ID); err != nil {
			return nil, fmt.Errorf("failed to set default address: %w", err)
		}
		address.IsDefault = true
	}

	r.logger.Info("address created",
		zap.String("user_id", userID.String()),
		zap.Int64("address_id", address.ID),
		zap.Bool("is_default", address.IsDefault),
	)
	resp := ToAddressResponse(address)
	return &resp, nil
}

// UpdateAddress replaces the postal fields of an address.
// The recipient name follows the profile and is not editable here.
func (r *AddressResolver) UpdateAddress(ctx context.Context, userID uuid.UUID, addressID int64, req AddressRequest) (*AddressResponse, error) {
	address, err := r.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if err := address.UpdateFields(req.fields()); err != nil {
		return nil, err
	}
	if err := r.addressRepo.Save(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to save address: %w", err)
	}
	resp := ToAddressResponse(address)
	return &resp, nil
}

// DeleteAddress removes an address. Deleting the default promotes the
// remaining address with the lowest ID.
func (r *AddressResolver) DeleteAddress(ctx context.Context, userID uuid.UUID, addressID int64) error {
	if _, err := r.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	promoted, err := r.addressRepo.Delete(ctx, userID, addressID)
	if err != nil {
		if shared.HasCode(err, shared.CodeNotFound) {
			return shared.NewDomainError(shared.CodeNotFound, "Address not found")
		}
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if promoted != 0 {
		r.logger.Info("default address promoted",
			zap.String("user_id", userID.String()),
			zap.Int64("address_id", promoted),
		)
	}
	return nil
}

// SetDefault makes addressID the user's only default address
func (r *AddressResolver) SetDefault(ctx context.Context, userID uuid.UUID, addressID int64) error {
	if err := r.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		if shared.HasCode(err, shared.CodeNotFound) {
			return shared.NewDomainError(shared.CodeNotFound, "Address not found")
		}
		return fmt.Errorf("failed to set default address: %w", err)
	}
	return nil
}

// ownedAddress loads an address and hides other users' addresses as NOT_FOUND
func (r *AddressResolver) ownedAddress(ctx context.Context, userID uuid.UUID, addressID int64) (*customer.Address, error) {
	address, err := r.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !address.BelongsTo(userID) {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Address not found")
	}
	return address, nil
}
