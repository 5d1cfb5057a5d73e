package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling/internal/db"
)

// BlockRepository stores directional block records and their optional
// attached reports.
type BlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new repository bound to the given DB connection.
func NewBlockRepository(database *gorm.DB) *BlockRepository {
	return &BlockRepository{db: database}
}

// Upsert records blocker → blocked. Re-blocking an already-blocked user is a
// no-op, not an error.
func (r *BlockRepository) Upsert(ctx context.Context, blockerID, blockedID string) error {
	block := db.Block{BlockerID: blockerID, BlockedID: blockedID}
	err := r.db.WithContext(ctx).Create(&block).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// ExistsEither reports whether a block row exists in either direction. The
// block record is directional but its effect is symmetric, so every read
// must check both.
func (r *BlockRepository) ExistsEither(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// ListInvolving returns every block row where userID is on either side.
// Lets read models build the exclusion set in one query.
func (r *BlockRepository) ListInvolving(ctx context.Context, userID string) ([]db.Block, error) {
	var blocks []db.Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Find(&blocks).Error
	return blocks, err
}

// UpsertReport stores at most one report per ordered reporter → reported
// pair; a repeat report overwrites reason and details.
func (r *BlockRepository) UpsertReport(ctx context.Context, reporterID, reportedID, reason, details string) error {
	report := db.Report{
		ReporterID: reporterID,
		ReportedID: reportedID,
		Reason:     reason,
		Details:    details,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reporter_id"}, {Name: "reported_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason", "details"}),
		}).
		Create(&report).Error
}
