// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmartinez/corkboard/internal/testutil"
)

func TestCreateMessage(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice")

	msg, err := repo.CreateMessage(ctx, "hello board", user.ID)

	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, "hello board", msg.Content)
	assert.Equal(t, user.ID, msg.AuthorID)
}

func TestListMessages(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice")
	bob := testutil.NewTestUser(t, repo, "bob")

	_, err := repo.CreateMessage(ctx, "first", alice.ID)
	require.NoError(t, err)
	_, err = repo.CreateMessage(ctx, "second", bob.ID)
	require.NoError(t, err)

	messages, err := repo.ListMessages(ctx)

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "alice", messages[0].AuthorName)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "bob", messages[1].AuthorName)
}

func TestListMessages_Empty(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	messages, err := repo.ListMessages(ctx)

	require.NoError(t, err)
	assert.Empty(t, messages)
}
