// Package remember persists the "remember me" preference and the email it
// applies to.
package remember

import (
	"context"

	"github.com/discera/discera-client/internal/client/repositories/metadata"
	"github.com/discera/discera-client/internal/common"
)

const flagOn = "true"

type Repository interface {
	// Remember sets the flag and stores email, in one write.
	Remember(ctx context.Context, email string) error
	// Forget removes both the flag and the email.
	Forget(ctx context.Context) error
	// Email returns the remembered email, or "" when the flag is not "true".
	Email(ctx context.Context) (string, error)
}

type MetadataRepository struct {
	md metadata.Repository
}

func NewMetadataRepository(md metadata.Repository) *MetadataRepository {
	return &MetadataRepository{md: md}
}

func (r *MetadataRepository) Remember(ctx context.Context, email string) error {
	return r.md.SetMany(ctx, map[string][]byte{
		common.RememberMeKey:    []byte(flagOn),
		common.RememberEmailKey: []byte(email),
	})
}

func (r *MetadataRepository) Forget(ctx context.Context) error {
	return r.md.Delete(ctx, common.RememberMeKey, common.RememberEmailKey)
}

func (r *MetadataRepository) Email(ctx context.Context) (string, error) {
	flag, err := r.md.Get(ctx, common.RememberMeKey)
	if err != nil {
		return "", err
	}
	if string(flag) != flagOn {
		return "", nil
	}
	email, err := r.md.Get(ctx, common.RememberEmailKey)
	if err != nil {
		return "", err
	}
	return string(email), nil
}
