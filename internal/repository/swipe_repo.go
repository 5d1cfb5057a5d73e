package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/db"
)

// SwipeRepository provides data access for the append-only swipe ledger.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Record appends one swipe event. The ledger is insert-only: repeated swipes
// on the same pair produce additional rows, never updates.
func (r *SwipeRepository) Record(ctx context.Context, swiperID, swipedID, action string) error {
	swipe := db.Swipe{
		SwiperID: swiperID,
		SwipedID: swipedID,
		Action:   action,
	}
	return r.db.WithContext(ctx).Create(&swipe).Error
}

// HasLiked reports whether swiper has any like/superlike row targeting swiped.
// The most permissive answer wins: a later pass does not retract an earlier
// like for matching purposes.
func (r *SwipeRepository) HasLiked(ctx context.Context, swiperID, swipedID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND swiped_id = ? AND action IN ?", swiperID, swipedID, likeActions).
		Count(&count).Error
	return count > 0, err
}

// likeActions are the swipe actions that count toward a match.
var likeActions = []string{db.ActionLike, db.ActionSuperlike}
