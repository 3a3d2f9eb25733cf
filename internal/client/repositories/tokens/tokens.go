// Package tokens persists the session bearer token under a fixed key.
package tokens

import (
	"context"

	"github.com/discera/discera-client/internal/client/repositories/metadata"
	"github.com/discera/discera-client/internal/common"
)

// Repository stores at most one token; Set replaces any previous value.
// Get returns "" when no token is stored.
type Repository interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type MetadataRepository struct {
	md metadata.Repository
}

func NewMetadataRepository(md metadata.Repository) *MetadataRepository {
	return &MetadataRepository{md: md}
}

func (r *MetadataRepository) Get(ctx context.Context) (string, error) {
	v, err := r.md.Get(ctx, common.TokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (r *MetadataRepository) Set(ctx context.Context, token string) error {
	return r.md.Set(ctx, common.TokenKey, []byte(token))
}

func (r *MetadataRepository) Clear(ctx context.Context) error {
	return r.md.Delete(ctx, common.TokenKey)
}
