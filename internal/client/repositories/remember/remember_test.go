package remember

import (
	"context"
	"testing"

	"github.com/discera/discera-client/internal/client/repositories/metadata"
	"github.com/discera/discera-client/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRememberAndForget(t *testing.T) {
	ctx := context.Background()
	md := metadata.NewMemoryRepository()
	r := NewMetadataRepository(md)

	email, err := r.Email(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, r.Remember(ctx, "ann@school.edu"))

	flag, _ := md.Get(ctx, common.RememberMeKey)
	assert.Equal(t, "true", string(flag))

	email, err = r.Email(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann@school.edu", email)

	require.NoError(t, r.Forget(ctx))
	all, _ := md.List(ctx)
	assert.Empty(t, all)
}

func TestEmail_IgnoredWithoutFlag(t *testing.T) {
	ctx := context.Background()
	md := metadata.NewMemoryRepository()
	require.NoError(t, md.Set(ctx, common.RememberEmailKey, []byte("x@y.z")))
	require.NoError(t, md.Set(ctx, common.RememberMeKey, []byte("false")))

	email, err := NewMetadataRepository(md).Email(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)
}
