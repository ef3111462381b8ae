package service

import (
	"context"
	"strings"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/domain"
)

type ProfileStore interface {
	UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (domain.User, error)
}

type UsersService struct {
	Store ProfileStore
}

// UpdateProfile applies a partial update of the mutable profile fields.
// Credential fields are only reachable through the password flows.
func (s *UsersService) UpdateProfile(ctx context.Context, userID string, firstName, lastName, dateOfBirth *string) (domain.User, error) {
	upd := domain.ProfileUpdate{}

	if firstName != nil {
		v := strings.TrimSpace(*firstName)
		if v == "" {
			return domain.User{}, domain.NewValidationError(map[string]string{"first_name": "must not be blank"})
		}
		upd.FirstName = &v
	}
	if lastName != nil {
		v := strings.TrimSpace(*lastName)
		if v == "" {
			return domain.User{}, domain.NewValidationError(map[string]string{"last_name": "must not be blank"})
		}
		upd.LastName = &v
	}
	if dateOfBirth != nil {
		v, err := time.Parse("2006-01-02", strings.TrimSpace(*dateOfBirth))
		if err != nil {
			return domain.User{}, domain.NewValidationError(map[string]string{"date_of_birth": "must be YYYY-MM-DD"})
		}
		upd.DateOfBirth = &v
	}

	if upd.Empty() {
		return domain.User{}, domain.NewValidationError(map[string]string{"body": "provide at least one field to update"})
	}

	return s.Store.UpdateProfile(ctx, userID, upd)
}
