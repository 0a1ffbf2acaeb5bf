package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetProfile returns the user's profile. Users who never saved one get an
// empty profile listing every missing field.
func (r *AddressResolver) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	profile, err := r.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// UpdateProfile saves the contact fields and re-mirrors the full name onto
// every address of the user.
func (r *AddressResolver) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := r.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	previousName := profile.FullName()

	profile.Update(req.FirstName, req.LastName, req.Phone)
	if email := strings.TrimSpace(req.Email); email != "" {
		profile.Email = email
	}
	if err := r.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	if name := profile.FullName(); name != previousName {
		if err := r.addressRepo.UpdateRecipientName(ctx, userID, name); err != nil {
			return nil, fmt.Errorf("failed to mirror recipient name: %w", err)
		}
		r.logger.Debug("recipient name mirrored",
			zap.String("user_id", userID.String()),
		)
	}

	resp := ToProfileResponse(profile)
	return &resp, nil
}
