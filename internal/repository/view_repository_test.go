package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/db"
	"github.com/kindlingapp/kindling/internal/repository"
)

func addSwipe(t *testing.T, dbase *gorm.DB, swiper, swiped, action string, at time.Time) {
	t.Helper()
	swipe := db.Swipe{SwiperID: swiper, SwipedID: swiped, Action: action, CreatedAt: at}
	require.NoError(t, dbase.Create(&swipe).Error)
}

func addBlock(t *testing.T, dbase *gorm.DB, blocker, blocked string) {
	t.Helper()
	require.NoError(t, repository.NewBlockRepository(dbase).Upsert(context.Background(), blocker, blocked))
}

func TestLikesReceived_AppliesExclusions(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewViewRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	addSwipe(t, dbase, "liker1", "me", db.ActionLike, now.Add(-1*time.Minute))
	addSwipe(t, dbase, "liker2", "me", db.ActionSuperlike, now.Add(-2*time.Minute))
	addSwipe(t, dbase, "matched", "me", db.ActionLike, now.Add(-3*time.Minute))
	addSwipe(t, dbase, "unmatched", "me", db.ActionLike, now.Add(-4*time.Minute))
	addSwipe(t, dbase, "blocker", "me", db.ActionLike, now.Add(-5*time.Minute))
	addSwipe(t, dbase, "passer", "me", db.ActionPass, now.Add(-6*time.Minute))

	_, _, err := repository.NewMatchRepository(dbase).CreateIfAbsent(ctx, "me", "matched")
	require.NoError(t, err)
	_, err = repository.NewUnmatchRepository(dbase).Create(ctx, "old-match", "me", "unmatched", "me")
	require.NoError(t, err)
	addBlock(t, dbase, "blocker", "me")

	swipes, next, err := repo.LikesReceived(ctx, "me", nil, 10)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, swipes, 2)
	assert.Equal(t, "liker1", swipes[0].SwiperID)
	assert.Equal(t, "liker2", swipes[1].SwiperID)
}

func TestLikesReceived_DedupesToLatestLike(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewViewRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	addSwipe(t, dbase, "liker1", "me", db.ActionLike, now.Add(-time.Hour))
	addSwipe(t, dbase, "liker1", "me", db.ActionSuperlike, now.Add(-time.Minute))

	swipes, _, err := repo.LikesReceived(ctx, "me", nil, 10)
	require.NoError(t, err)
	require.Len(t, swipes, 1)
	assert.Equal(t, db.ActionSuperlike, swipes[0].Action)
}

func TestLikesReceived_Pagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewViewRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	addSwipe(t, dbase, "liker1", "me", db.ActionLike, now.Add(-1*time.Minute))
	addSwipe(t, dbase, "liker2", "me", db.ActionLike, now.Add(-2*time.Minute))
	addSwipe(t, dbase, "liker3", "me", db.ActionLike, now.Add(-3*time.Minute))

	page1, next, err := repo.LikesReceived(ctx, "me", nil, 2)
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Len(t, page1, 2)
	assert.Equal(t, "liker1", page1[0].SwiperID)

	page2, next, err := repo.LikesReceived(ctx, "me", next, 2)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, page2, 1)
	assert.Equal(t, "liker3", page2[0].SwiperID)
}

func TestLikesSent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewViewRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	addSwipe(t, dbase, "me", "crush1", db.ActionLike, now.Add(-1*time.Minute))
	addSwipe(t, dbase, "me", "crush2", db.ActionSuperlike, now.Add(-2*time.Minute))
	addSwipe(t, dbase, "me", "blocked", db.ActionLike, now.Add(-3*time.Minute))
	addBlock(t, dbase, "me", "blocked")

	swipes, _, err := repo.LikesSent(ctx, "me", nil, 10)
	require.NoError(t, err)
	require.Len(t, swipes, 2)
	assert.Equal(t, "crush1", swipes[0].SwipedID)
	assert.Equal(t, "crush2", swipes[1].SwipedID)
}

func TestCountLikesReceived(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewViewRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	addSwipe(t, dbase, "liker1", "me", db.ActionLike, now.Add(-1*time.Minute))
	// duplicate rows count once
	addSwipe(t, dbase, "liker1", "me", db.ActionLike, now.Add(-2*time.Minute))
	addSwipe(t, dbase, "blocker", "me", db.ActionLike, now.Add(-3*time.Minute))
	addBlock(t, dbase, "me", "blocker")

	count, err := repo.CountLikesReceived(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestViewers_GroupsAndFiltersBlocksOnly(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewViewRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	views := []db.ProfileView{
		{ViewerID: "fan", ViewedID: "me", CreatedAt: now.Add(-3 * time.Minute)},
		{ViewerID: "fan", ViewedID: "me", CreatedAt: now.Add(-1 * time.Minute)},
		{ViewerID: "matched", ViewedID: "me", CreatedAt: now.Add(-2 * time.Minute)},
		{ViewerID: "blocked", ViewedID: "me", CreatedAt: now.Add(-4 * time.Minute)},
	}
	for i := range views {
		require.NoError(t, dbase.Create(&views[i]).Error)
	}

	// matched users are NOT hidden from viewers; blocked ones are
	_, _, err := repository.NewMatchRepository(dbase).CreateIfAbsent(ctx, "me", "matched")
	require.NoError(t, err)
	addBlock(t, dbase, "me", "blocked")

	rows, err := repo.Viewers(ctx, "me")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "fan", rows[0].ViewerID)
	assert.Equal(t, int64(2), rows[0].ViewCount)
	assert.Equal(t, "matched", rows[1].ViewerID)
	assert.Equal(t, int64(1), rows[1].ViewCount)
}
