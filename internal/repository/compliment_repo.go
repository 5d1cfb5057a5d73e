package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindlingapp/kindling/internal/db"
)

// ComplimentRepository stores one-shot compliment openers, at most one per
// ordered sender → recipient pair.
type ComplimentRepository struct {
	db *gorm.DB
}

// NewComplimentRepository creates a new repository bound to the given DB connection.
func NewComplimentRepository(database *gorm.DB) *ComplimentRepository {
	return &ComplimentRepository{db: database}
}

// Upsert inserts the compliment, or refreshes the message text when the pair
// already has one. Status is left untouched on conflict so a re-send cannot
// resurrect a declined compliment.
func (r *ComplimentRepository) Upsert(ctx context.Context, senderID, recipientID, message string) error {
	compliment := db.Compliment{
		SenderID:    senderID,
		RecipientID: recipientID,
		Message:     message,
		Status:      db.ComplimentPending,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sender_id"}, {Name: "recipient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"message"}),
		}).
		Create(&compliment).Error
}

// GetPair fetches the compliment from sender to recipient, if any.
func (r *ComplimentRepository) GetPair(ctx context.Context, senderID, recipientID string) (*db.Compliment, error) {
	var compliment db.Compliment
	err := r.db.WithContext(ctx).
		First(&compliment, "sender_id = ? AND recipient_id = ?", senderID, recipientID).Error
	if err != nil {
		return nil, err
	}
	return &compliment, nil
}

// Resolve flips pending → accepted/declined. Returns false if the compliment
// was already resolved.
func (r *ComplimentRepository) Resolve(ctx context.Context, id uint64, status string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Compliment{}).
		Where("id = ? AND status = ?", id, db.ComplimentPending).
		Update("status", status)
	return res.RowsAffected == 1, res.Error
}
