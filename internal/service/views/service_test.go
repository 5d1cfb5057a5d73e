package views_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/app"
	"github.com/kindlingapp/kindling/internal/cache"
	"github.com/kindlingapp/kindling/internal/config"
	"github.com/kindlingapp/kindling/internal/db"
	"github.com/kindlingapp/kindling/internal/repository"
	"github.com/kindlingapp/kindling/internal/service/relationship"
	"github.com/kindlingapp/kindling/internal/service/swipe"
	"github.com/kindlingapp/kindling/internal/service/views"
)

func setupAppCtx(t *testing.T) *app.AppContext {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(db.Models...))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	return app.New(dbase, cache.NewRedisCache(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
}

func likeEntryIDs(page *views.LikesPage) []string {
	ids := make([]string, 0, len(page.Likes))
	for _, l := range page.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

// TestLikesHideDissolvedPairs covers the defining property of the likes
// screens: mutual like rows survive in the ledger, but once the pair unmatches
// neither side sees the other among their likes.
func TestLikesHideDissolvedPairs(t *testing.T) {
	ctx := context.Background()
	appCtx := setupAppCtx(t)
	swipeSvc := swipe.NewService(appCtx)
	relSvc := relationship.NewService(appCtx)
	viewSvc := views.NewService(appCtx)

	_, err := swipeSvc.Put(ctx, "aaa", "bbb", db.ActionLike)
	require.NoError(t, err)
	res, err := swipeSvc.Put(ctx, "bbb", "aaa", db.ActionLike)
	require.NoError(t, err)
	require.True(t, res.Matched)

	_, err = swipeSvc.Put(ctx, "ccc", "aaa", db.ActionLike)
	require.NoError(t, err)

	// matched pairs are already hidden
	page, err := viewSvc.LikesReceived(ctx, "aaa", nil, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"ccc"}, likeEntryIDs(page))

	require.NoError(t, relSvc.Unmatch(ctx, "aaa", res.MatchID))

	page, err = viewSvc.LikesReceived(ctx, "aaa", nil, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"ccc"}, likeEntryIDs(page))

	page, err = viewSvc.LikesReceived(ctx, "bbb", nil, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Likes)

	page, err = viewSvc.LikesSent(ctx, "aaa", nil, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Likes)
}

func TestCountLikesReceived_CacheFirst(t *testing.T) {
	ctx := context.Background()
	appCtx := setupAppCtx(t)
	swipeSvc := swipe.NewService(appCtx)
	viewSvc := views.NewService(appCtx)

	_, err := swipeSvc.Put(ctx, "u2", "u1", db.ActionLike)
	require.NoError(t, err)
	_, err = swipeSvc.Put(ctx, "u3", "u1", db.ActionLike)
	require.NoError(t, err)

	// miss: computed from the DB and cached
	n, err := viewSvc.CountLikesReceived(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	cached, ok, err := appCtx.RedisCache.GetLikeCount(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), cached)

	// hit: served from the cache, bumped by later swipes
	_, err = swipeSvc.Put(ctx, "u4", "u1", db.ActionLike)
	require.NoError(t, err)

	n, err = viewSvc.CountLikesReceived(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestViewers_IgnoresRelationshipState(t *testing.T) {
	ctx := context.Background()
	appCtx := setupAppCtx(t)
	viewSvc := views.NewService(appCtx)

	require.NoError(t, viewSvc.RecordView(ctx, "v1", "u1"))
	require.NoError(t, viewSvc.RecordView(ctx, "v1", "u1"))
	require.NoError(t, viewSvc.RecordView(ctx, "v2", "u1"))

	// a match does not hide viewers; only blocks do
	_, _, err := repository.NewMatchRepository(appCtx.DB).CreateIfAbsent(ctx, "v1", "u1")
	require.NoError(t, err)
	require.NoError(t, repository.NewBlockRepository(appCtx.DB).Upsert(ctx, "u1", "v2"))

	entries, err := viewSvc.Viewers(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "v1", entries[0].UserID)
	assert.Equal(t, int64(2), entries[0].ViewCount)
}

func TestRecordView_Self(t *testing.T) {
	viewSvc := views.NewService(setupAppCtx(t))
	require.Error(t, viewSvc.RecordView(context.Background(), "u1", "u1"))
}

func TestChatList(t *testing.T) {
	ctx := context.Background()
	appCtx := setupAppCtx(t)
	relSvc := relationship.NewService(appCtx)
	viewSvc := views.NewService(appCtx)

	matchRepo := repository.NewMatchRepository(appCtx.DB)
	msgRepo := repository.NewMessageRepository(appCtx.DB)

	// a live match with two messages, one unread for aaa
	live, _, err := matchRepo.CreateIfAbsent(ctx, "aaa", "ccc")
	require.NoError(t, err)
	require.NoError(t, msgRepo.Append(ctx, live.ID, "aaa", "hi"))
	require.NoError(t, msgRepo.Append(ctx, live.ID, "ccc", "hey!"))
	last, err := msgRepo.Last(ctx, live.ID)
	require.NoError(t, err)
	require.NotNil(t, last)

	// a dissolved match with a pending rematch aimed at aaa
	old, _, err := matchRepo.CreateIfAbsent(ctx, "aaa", "bbb")
	require.NoError(t, err)
	oldID := old.ID
	require.NoError(t, relSvc.Unmatch(ctx, "bbb", oldID))
	_, err = relSvc.RequestRematch(ctx, "bbb", "aaa")
	require.NoError(t, err)

	entries, err := viewSvc.ChatList(ctx, "aaa")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// the actionable pending request sorts first, keyed by the old match id
	assert.True(t, entries[0].RematchPending)
	assert.Equal(t, oldID, entries[0].MatchID)
	assert.Equal(t, "bbb", entries[0].OtherUserID)

	assert.False(t, entries[1].RematchPending)
	assert.Equal(t, live.ID, entries[1].MatchID)
	assert.Equal(t, "ccc", entries[1].OtherUserID)
	assert.Equal(t, "hey!", entries[1].LastMessage)
	require.NotNil(t, entries[1].LastMessageAt)
	assert.Equal(t, last.CreatedAt.Unix(), entries[1].LastMessageAt.Unix())
	assert.Equal(t, int64(1), entries[1].UnreadCount)

	// the requester does not see a pending entry, only their live matches
	entries, err = viewSvc.ChatList(ctx, "bbb")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChatList_HidesBlockedCounterparts(t *testing.T) {
	ctx := context.Background()
	appCtx := setupAppCtx(t)
	viewSvc := views.NewService(appCtx)

	_, _, err := repository.NewMatchRepository(appCtx.DB).CreateIfAbsent(ctx, "aaa", "bbb")
	require.NoError(t, err)
	require.NoError(t, repository.NewBlockRepository(appCtx.DB).Upsert(ctx, "bbb", "aaa"))

	entries, err := viewSvc.ChatList(ctx, "aaa")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChatList_PendingWithoutMessages(t *testing.T) {
	ctx := context.Background()
	appCtx := setupAppCtx(t)
	viewSvc := views.NewService(appCtx)

	unmatches := repository.NewUnmatchRepository(appCtx.DB)
	oldID := uuid.NewString()
	um, err := unmatches.Create(ctx, oldID, "aaa", "bbb", "bbb")
	require.NoError(t, err)
	ok, err := unmatches.MarkPending(ctx, um.ID, "bbb")
	require.NoError(t, err)
	require.True(t, ok)

	entries, err := viewSvc.ChatList(ctx, "aaa")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, oldID, entries[0].MatchID)
	assert.Empty(t, entries[0].LastMessage)
	assert.Nil(t, entries[0].LastMessageAt)
}
