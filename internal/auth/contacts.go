package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Contacts resolves where a user is notified. The notifier depends on it
// through notifications.ContactResolver.
type Contacts struct {
	repo Repository
}

func NewContacts(repo Repository) *Contacts {
	return &Contacts{repo: repo}
}

func (c *Contacts) GetContact(ctx context.Context, userID uuid.UUID) (email, name string, err error) {
	user, err := c.repo.FindByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return user.Email, user.FullName(), nil
}
