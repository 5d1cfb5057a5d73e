package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/db"
)

// MessageRepository treats chat as an opaque append-only log keyed by match
// id. Delivery and ordering semantics live elsewhere; the engine only appends
// (compliment seeding) and reads chat-list summaries.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Append adds one message to the log.
func (r *MessageRepository) Append(ctx context.Context, matchID, senderID, content string) error {
	msg := db.Message{
		MatchID:  matchID,
		SenderID: senderID,
		Content:  content,
	}
	return r.db.WithContext(ctx).Create(&msg).Error
}

// Last returns the newest message for a match, or nil when the log is empty.
func (r *MessageRepository) Last(ctx context.Context, matchID string) (*db.Message, error) {
	var msg db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountUnread counts messages in a match that userID has not read.
func (r *MessageRepository) CountUnread(ctx context.Context, matchID, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("match_id = ? AND sender_id <> ? AND read_at IS NULL", matchID, userID).
		Count(&count).Error
	return count, err
}
