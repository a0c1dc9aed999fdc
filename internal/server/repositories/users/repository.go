// Package users stores account credentials.
package users

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository persists users. Create fails with common.ErrorAlreadyExists when
// the username or email is taken; FindByIdentifier fails with
// common.ErrorNotFound when neither matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}
