package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UserServiceAdapter exposes user contact details through the auth repository.
// Notification and waitlist code depends on this narrow shape instead of the
// users package, which keeps the import graph acyclic.
type UserServiceAdapter struct {
	repo Repository
}

// NewUserServiceAdapter creates a new user service adapter
func NewUserServiceAdapter(repo Repository) *UserServiceAdapter {
	return &UserServiceAdapter{
		repo: repo,
	}
}

// GetUserContact fetches the contact fields for a user.
func (usa *UserServiceAdapter) GetUserContact(ctx context.Context, userID uuid.UUID) (email, phone, firstName, lastName string, err error) {
	user, err := usa.repo.GetUserByID(ctx, userID.String())
	if err != nil {
		return "", "", "", "", fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	return user.Email, user.Phone, user.FirstName, user.LastName, nil
}
