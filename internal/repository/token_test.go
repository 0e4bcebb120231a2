// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmartinez/corkboard/internal/repository"
	"github.com/akmartinez/corkboard/internal/testutil"
)

func TestCreateAuthToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice")

	err := repo.CreateAuthToken(ctx, "token-1", user.ID)

	require.NoError(t, err)
}

func TestCreateAuthToken_Duplicate(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice")

	require.NoError(t, repo.CreateAuthToken(ctx, "token-1", user.ID))

	err := repo.CreateAuthToken(ctx, "token-1", user.ID)

	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestGetUserByToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice")
	require.NoError(t, repo.CreateAuthToken(ctx, "token-1", user.ID))

	resolved, err := repo.GetUserByToken(ctx, "token-1")

	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "alice", resolved.Username)
}

func TestGetUserByToken_NeverIssued(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.GetUserByToken(ctx, "no-such-token")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByToken_MultipleLiveTokens(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice")
	require.NoError(t, repo.CreateAuthToken(ctx, "token-1", user.ID))
	require.NoError(t, repo.CreateAuthToken(ctx, "token-2", user.ID))

	for _, token := range []string{"token-1", "token-2"} {
		resolved, err := repo.GetUserByToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
	}

	count, err := repo.CountUserTokens(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteAuthToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice")
	require.NoError(t, repo.CreateAuthToken(ctx, "token-1", user.ID))

	err := repo.DeleteAuthToken(ctx, "token-1")

	require.NoError(t, err)

	_, err = repo.GetUserByToken(ctx, "token-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteAuthToken_Unknown(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	err := repo.DeleteAuthToken(ctx, "no-such-token")

	assert.NoError(t, err)
}
