package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/db"
)

// ErrNoBoostBalance is returned when a user with zero balance tries to
// activate a boost.
var ErrNoBoostBalance = errors.New("no boost balance")

// BoostRepository allocates time-bounded profile boosts from a per-user
// balance.
type BoostRepository struct {
	db *gorm.DB
}

// NewBoostRepository creates a new repository bound to the given DB connection.
func NewBoostRepository(database *gorm.DB) *BoostRepository {
	return &BoostRepository{db: database}
}

// Activate grants a boost of the given duration, decrementing the user's
// balance by exactly one per granted boost.
//
// The balance decrement is a single conditional UPDATE gated on both
// boost_count > 0 and the absence of an unexpired boost, so the check and the
// charge are atomic: a losing concurrent call affects zero rows, burns no
// balance, and gets the winner's boost back (created = false).
func (r *BoostRepository) Activate(ctx context.Context, userID string, duration time.Duration) (*db.ProfileBoost, bool, error) {
	now := time.Now().UTC()
	boost := db.ProfileBoost{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: now,
		ExpiresAt: now.Add(duration),
	}

	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db.User{}).
			Where("id = ? AND boost_count > 0", userID).
			Where("NOT EXISTS (SELECT 1 FROM profile_boosts pb WHERE pb.user_id = ? AND pb.expires_at > ?)", userID, now).
			Update("boost_count", gorm.Expr("boost_count - 1"))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			created = true
			return tx.Create(&boost).Error
		}

		// zero rows: either a boost is already active, or the balance is gone
		var active db.ProfileBoost
		err := tx.Where("user_id = ? AND expires_at > ?", userID, now).
			Order("expires_at DESC").
			First(&active).Error
		if err == nil {
			boost = active
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// no active boost; confirm the user exists before blaming the balance
		var user db.User
		if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		return ErrNoBoostBalance
	})
	if err != nil {
		return nil, false, err
	}
	return &boost, created, nil
}

// GetActive returns the user's unexpired boost, if any.
func (r *BoostRepository) GetActive(ctx context.Context, userID string) (*db.ProfileBoost, error) {
	var boost db.ProfileBoost
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now().UTC()).
		Order("expires_at DESC").
		First(&boost).Error
	if err != nil {
		return nil, err
	}
	return &boost, nil
}
