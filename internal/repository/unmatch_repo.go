package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling/internal/db"
)

// UnmatchRepository stores the archive rows for dissolved matches and the
// rematch handshake state that lives on them.
//
// No lock is held across the unmatch → request → accept/reject flow; the
// rematch_status column is the lock. Every transition here is a conditional
// UPDATE gated on the expected status, and RowsAffected tells the caller
// whether it won.
type UnmatchRepository struct {
	db *gorm.DB
}

// NewUnmatchRepository creates a new repository bound to the given DB connection.
func NewUnmatchRepository(database *gorm.DB) *UnmatchRepository {
	return &UnmatchRepository{db: database}
}

// Create archives a dissolved match. matchID is the former Match row's id.
//
// One row exists per historically-unmatched pair. If the pair already has one
// (matched again through another path, then unmatched again) the row is
// refreshed with the new match id and unmatcher, but rematch_status is left
// alone: a rejected handshake stays rejected.
func (r *UnmatchRepository) Create(ctx context.Context, matchID, a, b, unmatchedBy string) (*db.Unmatch, error) {
	u1, u2 := OrderPair(a, b)
	um := db.Unmatch{
		MatchID:       matchID,
		User1ID:       u1,
		User2ID:       u2,
		UnmatchedBy:   unmatchedBy,
		RematchStatus: db.RematchNone,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"match_id", "unmatched_by"}),
		}).
		Create(&um).Error
	if err != nil {
		return nil, err
	}
	return r.GetByPair(ctx, u1, u2)
}

// GetByPair fetches the unmatch row for an unordered pair, if any.
func (r *UnmatchRepository) GetByPair(ctx context.Context, a, b string) (*db.Unmatch, error) {
	u1, u2 := OrderPair(a, b)
	var um db.Unmatch
	err := r.db.WithContext(ctx).
		First(&um, "user1_id = ? AND user2_id = ?", u1, u2).Error
	if err != nil {
		return nil, err
	}
	return &um, nil
}

// ListPendingFor returns the pending rematch requests where userID is the
// counterpart (not the requester). These surface as actionable chat-list
// entries even though no Match row currently exists.
func (r *UnmatchRepository) ListPendingFor(ctx context.Context, userID string) ([]db.Unmatch, error) {
	var rows []db.Unmatch
	err := r.db.WithContext(ctx).
		Where("rematch_status = ?", db.RematchPending).
		Where("(user1_id = ? OR user2_id = ?)", userID, userID).
		Where("rematch_requested_by <> ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// MarkPending flips none → pending and records the requester. Returns false
// if the row was no longer in status none (a concurrent transition won).
func (r *UnmatchRepository) MarkPending(ctx context.Context, id uint64, requesterID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Unmatch{}).
		Where("id = ? AND rematch_status = ?", id, db.RematchNone).
		Updates(map[string]any{
			"rematch_status":       db.RematchPending,
			"rematch_requested_by": requesterID,
		})
	return res.RowsAffected == 1, res.Error
}

// MarkRejected flips pending → rejected. Returns false if the row was no
// longer pending.
func (r *UnmatchRepository) MarkRejected(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Unmatch{}).
		Where("id = ? AND rematch_status = ?", id, db.RematchPending).
		Update("rematch_status", db.RematchRejected)
	return res.RowsAffected == 1, res.Error
}

// DeletePending removes the archive row only while its handshake is still
// pending. Returns false when a concurrent transition got there first, in
// which case the caller must not mint a new match.
func (r *UnmatchRepository) DeletePending(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND rematch_status = ?", id, db.RematchPending).
		Delete(&db.Unmatch{})
	return res.RowsAffected == 1, res.Error
}

// Delete removes the archive row unconditionally. Used when a match
// reappears through another path while a request is in flight.
func (r *UnmatchRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&db.Unmatch{}, "id = ?", id).Error
}
