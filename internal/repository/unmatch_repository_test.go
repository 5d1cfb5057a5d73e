package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlingapp/kindling/internal/db"
	"github.com/kindlingapp/kindling/internal/repository"
)

func TestUnmatchCreateAndStatusGates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUnmatchRepository(setupTestDB(t))

	um, err := repo.Create(ctx, "match-1", "bbb", "aaa", "aaa")
	require.NoError(t, err)
	assert.Equal(t, "aaa", um.User1ID)
	assert.Equal(t, "bbb", um.User2ID)
	assert.Equal(t, db.RematchNone, um.RematchStatus)

	// none → pending
	ok, err := repo.MarkPending(ctx, um.ID, "bbb")
	require.NoError(t, err)
	assert.True(t, ok)

	// pending → pending is gated out
	ok, err = repo.MarkPending(ctx, um.ID, "aaa")
	require.NoError(t, err)
	assert.False(t, ok)

	// pending → rejected
	ok, err = repo.MarkRejected(ctx, um.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// rejected → pending is gated out
	ok, err = repo.MarkPending(ctx, um.ID, "aaa")
	require.NoError(t, err)
	assert.False(t, ok)

	cur, err := repo.GetByPair(ctx, "aaa", "bbb")
	require.NoError(t, err)
	assert.Equal(t, db.RematchRejected, cur.RematchStatus)
}

func TestUnmatchCreate_RefreshKeepsStatus(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUnmatchRepository(setupTestDB(t))

	um, err := repo.Create(ctx, "match-1", "aaa", "bbb", "aaa")
	require.NoError(t, err)

	_, err = repo.MarkPending(ctx, um.ID, "bbb")
	require.NoError(t, err)
	_, err = repo.MarkRejected(ctx, um.ID)
	require.NoError(t, err)

	// pair matched again elsewhere, then unmatched again: row is refreshed
	// but the rejected handshake must not be resurrected
	refreshed, err := repo.Create(ctx, "match-2", "aaa", "bbb", "bbb")
	require.NoError(t, err)
	assert.Equal(t, "match-2", refreshed.MatchID)
	assert.Equal(t, "bbb", refreshed.UnmatchedBy)
	assert.Equal(t, db.RematchRejected, refreshed.RematchStatus)
}

func TestDeletePending(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUnmatchRepository(setupTestDB(t))

	um, err := repo.Create(ctx, "match-1", "aaa", "bbb", "aaa")
	require.NoError(t, err)

	// not pending yet
	ok, err := repo.DeletePending(ctx, um.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.MarkPending(ctx, um.ID, "bbb")
	require.NoError(t, err)

	ok, err = repo.DeletePending(ctx, um.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListPendingFor(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUnmatchRepository(setupTestDB(t))

	um, err := repo.Create(ctx, "match-1", "aaa", "bbb", "aaa")
	require.NoError(t, err)
	_, err = repo.MarkPending(ctx, um.ID, "bbb")
	require.NoError(t, err)

	// visible to the counterpart only
	rows, err := repo.ListPendingFor(ctx, "aaa")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "match-1", rows[0].MatchID)

	rows, err = repo.ListPendingFor(ctx, "bbb")
	require.NoError(t, err)
	assert.Len(t, rows, 0)
}
