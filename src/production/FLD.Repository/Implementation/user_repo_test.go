package implementation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Errors"
	auth_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/auth"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	repo := NewSQLiteUserRepository(newTestDB(t))
	ctx := context.Background()

	user := auth_models.NewUser("alice", "hashed-secret")
	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, created.UserID)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.UserID, got.UserID)
	assert.Equal(t, "hashed-secret", got.Password)

	byID, err := repo.GetByID(ctx, created.UserID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	repo := NewSQLiteUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, auth_models.NewUser("alice", "h1"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, auth_models.NewUser("alice", "h2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestUserRepositoryMissingUser(t *testing.T) {
	repo := NewSQLiteUserRepository(newTestDB(t))
	ctx := context.Background()

	got, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepositoryCount(t *testing.T) {
	repo := NewSQLiteUserRepository(newTestDB(t))
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = repo.Create(ctx, auth_models.NewUser("alice", "h"))
	require.NoError(t, err)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
