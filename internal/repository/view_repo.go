package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/db"
	"github.com/kindlingapp/kindling/internal/utils/pagination"
)

// ViewRepository serves the relationship-filtered read models: likes
// received/sent and profile viewers.
//
// Every like query applies the same exclusion set (current matches, blocks
// in either direction, unmatches in either direction), so a severed
// relationship disappears from the lists even though the underlying swipe
// rows remain.
type ViewRepository struct {
	db *gorm.DB
}

// NewViewRepository creates a new repository bound to the given DB connection.
func NewViewRepository(database *gorm.DB) *ViewRepository {
	return &ViewRepository{db: database}
}

// RecordView appends one profile-view event.
func (r *ViewRepository) RecordView(ctx context.Context, viewerID, viewedID string) error {
	view := db.ProfileView{ViewerID: viewerID, ViewedID: viewedID}
	return r.db.WithContext(ctx).Create(&view).Error
}

// ViewerRow is one grouped entry of the viewers screen.
type ViewerRow struct {
	ViewerID  string
	ViewCount int64
	CreatedAt time.Time
}

// pairExclusion builds a NOT EXISTS clause excluding rows whose counterpart
// column forms a pair (in either stored order) with the requesting user.
// Takes two bind args, both the requesting user's id.
func pairExclusion(table, col1, col2, otherCol string) string {
	return fmt.Sprintf(`NOT EXISTS (
		SELECT 1 FROM %s x
		WHERE (x.%s = %s AND x.%s = ?) OR (x.%s = ? AND x.%s = %s)
	)`, table, col1, otherCol, col2, col1, col2, otherCol)
}

// latestPerSwiper keeps only each swiper's most recent like/superlike row, so
// the tolerated duplicate ledger rows collapse to one list entry.
const latestPerSwiper = `NOT EXISTS (
	SELECT 1 FROM swipes s2
	WHERE s2.swiper_id = s.swiper_id AND s2.swiped_id = s.swiped_id
	  AND s2.action IN ?
	  AND (s2.created_at > s.created_at OR (s2.created_at = s.created_at AND s2.id > s.id))
)`

// LikesReceived lists users with a like/superlike targeting userID, most
// recent first, minus the exclusion set. Cursor pagination in the
// (created_at DESC, swiper_id DESC) ordering.
func (r *ViewRepository) LikesReceived(
	ctx context.Context,
	userID string,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiped_id = ? AND s.action IN ?", userID, likeActions).
		Where(latestPerSwiper, likeActions).
		Where(pairExclusion("matches", "user1_id", "user2_id", "s.swiper_id"), userID, userID).
		Where(pairExclusion("unmatches", "user1_id", "user2_id", "s.swiper_id"), userID, userID).
		Where(pairExclusion("blocks", "blocker_id", "blocked_id", "s.swiper_id"), userID, userID).
		Order("s.created_at DESC, s.swiper_id DESC").
		Limit(limit + 1)

	query = applyCursor(query, cursor, "s.swiper_id")

	var swipes []db.Swipe
	if err := query.Find(&swipes).Error; err != nil {
		return nil, nil, err
	}

	swipes, nextToken := nextPage(swipes, limit, func(s db.Swipe) string { return s.SwiperID })
	return swipes, nextToken, nil
}

// LikesSent is the symmetric list: users userID has liked, minus the same
// exclusion set.
func (r *ViewRepository) LikesSent(
	ctx context.Context,
	userID string,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	// latest like per swiped target
	latestPerTarget := `NOT EXISTS (
		SELECT 1 FROM swipes s2
		WHERE s2.swiper_id = s.swiper_id AND s2.swiped_id = s.swiped_id
		  AND s2.action IN ?
		  AND (s2.created_at > s.created_at OR (s2.created_at = s.created_at AND s2.id > s.id))
	)`

	query := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiper_id = ? AND s.action IN ?", userID, likeActions).
		Where(latestPerTarget, likeActions).
		Where(pairExclusion("matches", "user1_id", "user2_id", "s.swiped_id"), userID, userID).
		Where(pairExclusion("unmatches", "user1_id", "user2_id", "s.swiped_id"), userID, userID).
		Where(pairExclusion("blocks", "blocker_id", "blocked_id", "s.swiped_id"), userID, userID).
		Order("s.created_at DESC, s.swiped_id DESC").
		Limit(limit + 1)

	query = applyCursor(query, cursor, "s.swiped_id")

	var swipes []db.Swipe
	if err := query.Find(&swipes).Error; err != nil {
		return nil, nil, err
	}

	swipes, nextToken := nextPage(swipes, limit, func(s db.Swipe) string { return s.SwipedID })
	return swipes, nextToken, nil
}

// CountLikesReceived counts distinct likers after exclusions. Used behind the
// Redis counter cache (DB is the fallback).
func (r *ViewRepository) CountLikesReceived(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.swiped_id = ? AND s.action IN ?", userID, likeActions).
		Where(pairExclusion("matches", "user1_id", "user2_id", "s.swiper_id"), userID, userID).
		Where(pairExclusion("unmatches", "user1_id", "user2_id", "s.swiper_id"), userID, userID).
		Where(pairExclusion("blocks", "blocker_id", "blocked_id", "s.swiper_id"), userID, userID).
		Distinct("s.swiper_id").
		Count(&count).Error
	return count, err
}

// Viewers groups profile-view events targeting userID by viewer, with count
// and most-recent timestamp. Only block exclusions apply: matched and
// unmatched users still show up as viewers.
func (r *ViewRepository) Viewers(ctx context.Context, userID string) ([]ViewerRow, error) {
	latestPerViewer := `NOT EXISTS (
		SELECT 1 FROM profile_views v2
		WHERE v2.viewer_id = v.viewer_id AND v2.viewed_id = v.viewed_id
		  AND (v2.created_at > v.created_at OR (v2.created_at = v.created_at AND v2.id > v.id))
	)`

	var rows []ViewerRow
	err := r.db.WithContext(ctx).
		Table("profile_views v").
		Select(`v.viewer_id,
			v.created_at,
			(SELECT COUNT(*) FROM profile_views v3
			 WHERE v3.viewer_id = v.viewer_id AND v3.viewed_id = v.viewed_id) AS view_count`).
		Where("v.viewed_id = ?", userID).
		Where(latestPerViewer).
		Where(pairExclusion("blocks", "blocker_id", "blocked_id", "v.viewer_id"), userID, userID).
		Order("v.created_at DESC, v.viewer_id DESC").
		Find(&rows).Error
	return rows, err
}

// --- helpers ---

// applyCursor adds the keyset condition for a (created_at DESC, id DESC) page.
func applyCursor(query *gorm.DB, cursor pagination.Cursor, idCol string) *gorm.DB {
	if cursor.UserID == "" || cursor.CreatedUnix == 0 {
		return query
	}
	ts := time.UnixMilli(cursor.CreatedUnix)
	return query.Where(
		fmt.Sprintf("(s.created_at < ? OR (s.created_at = ? AND %s < ?))", idCol),
		ts, ts, cursor.UserID,
	)
}

// nextPage trims the probe row and builds the next-page token.
func nextPage(swipes []db.Swipe, limit int, idOf func(db.Swipe) string) ([]db.Swipe, *string) {
	if len(swipes) <= limit {
		return swipes, nil
	}
	last := swipes[limit-1]
	token, _ := pagination.Encode(pagination.Cursor{
		UserID:      idOf(last),
		CreatedUnix: last.CreatedAt.UnixMilli(),
	})
	return swipes[:limit], &token
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
