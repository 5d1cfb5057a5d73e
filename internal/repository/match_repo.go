package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/db"
)

// OrderPair returns the two ids in canonical order: lexicographic string
// comparison, smaller first. Every table keyed by an unordered pair stores
// ids in this order so exactly one row represents the relationship.
func OrderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// MatchRepository is the match registry: it owns the canonical,
// unique-per-pair Match rows.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent inserts the Match for the unordered pair {a, b}, or returns
// the existing one. Idempotent under the double-swipe race: the unique index
// on (user1_id, user2_id) makes check-and-insert atomic, and a duplicate-key
// conflict is recovered by re-reading the winner's row.
//
// The second return value is true when this call created the row: the one
// moment a match event should be surfaced to both users.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, a, b string) (*db.Match, bool, error) {
	u1, u2 := OrderPair(a, b)
	match := db.Match{
		ID:      uuid.NewString(),
		User1ID: u1,
		User2ID: u2,
	}

	err := r.db.WithContext(ctx).Create(&match).Error
	if err == nil {
		return &match, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	// lost the race: another call already created the pair
	existing, err := r.GetByPair(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID fetches a match by id.
func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*db.Match, error) {
	var match db.Match
	if err := r.db.WithContext(ctx).First(&match, "id = ?", matchID).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByPair fetches the match for an unordered pair, if any.
func (r *MatchRepository) GetByPair(ctx context.Context, a, b string) (*db.Match, error) {
	u1, u2 := OrderPair(a, b)
	var match db.Match
	err := r.db.WithContext(ctx).
		First(&match, "user1_id = ? AND user2_id = ?", u1, u2).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListForUser returns every current match the user is part of, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// Delete hard-removes a match row. Callers must archive whatever state they
// need (an Unmatch row) before calling: messages reference the match id and
// stay queryable after the row is gone.
func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	return r.db.WithContext(ctx).Delete(&db.Match{}, "id = ?", matchID).Error
}
