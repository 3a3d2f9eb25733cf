package users

import (
	"context"
)

// Repository persists users. Create fails with common.ErrorAlreadyExists when
// the email or username is taken; lookups fail with common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
