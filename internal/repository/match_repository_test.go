package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/db"
	"github.com/kindlingapp/kindling/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db.Models...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestOrderPair(t *testing.T) {
	u1, u2 := repository.OrderPair("bbb", "aaa")
	assert.Equal(t, "aaa", u1)
	assert.Equal(t, "bbb", u2)

	u1, u2 = repository.OrderPair("aaa", "bbb")
	assert.Equal(t, "aaa", u1)
	assert.Equal(t, "bbb", u2)
}

func TestCreateIfAbsent_CanonicalOrdering(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(setupTestDB(t))

	match, created, err := repo.CreateIfAbsent(ctx, "bbb", "aaa")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "aaa", match.User1ID)
	assert.Equal(t, "bbb", match.User2ID)
}

func TestCreateIfAbsent_Idempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	first, created, err := repo.CreateIfAbsent(ctx, "aaa", "bbb")
	require.NoError(t, err)
	assert.True(t, created)

	// same pair, reversed caller order
	second, created, err := repo.CreateIfAbsent(ctx, "bbb", "aaa")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, dbase.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMatchDelete(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	match, _, err := repo.CreateIfAbsent(ctx, "aaa", "bbb")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, match.ID))

	_, err = repo.GetByID(ctx, match.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(setupTestDB(t))

	_, _, err := repo.CreateIfAbsent(ctx, "aaa", "bbb")
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, "ccc", "aaa")
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, "bbb", "ccc")
	require.NoError(t, err)

	matches, err := repo.ListForUser(ctx, "aaa")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
