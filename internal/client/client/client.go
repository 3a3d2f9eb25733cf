package client

import (
	"context"

	"github.com/discera/discera-client/internal/client/models"
)

type Client interface {
	Close() error
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Me(ctx context.Context, token string) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	Ping(ctx context.Context) error
}
