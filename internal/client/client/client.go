package client

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*models.User, error)
	Me(ctx context.Context, token string) (*models.User, error)
}
