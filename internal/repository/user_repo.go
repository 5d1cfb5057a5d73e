package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kindlingapp/kindling/internal/db"
)

// UserRepository reads user identity rows and applies billing-webhook writes.
// Profile data proper belongs to the external profile subsystem; this covers
// only what the engine needs.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ApplyBillingGrant is the write side of the subscription webhook: it sets
// premium status and adds purchased boosts to the balance.
func (r *UserRepository) ApplyBillingGrant(ctx context.Context, userID string, isPremium bool, boostGrant int) error {
	updates := map[string]any{"is_premium": isPremium}
	if boostGrant > 0 {
		updates["boost_count"] = gorm.Expr("boost_count + ?", boostGrant)
	}
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
