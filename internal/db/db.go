package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kindlingapp/kindling/internal/config"
)

// Models is the full schema, in migration order.
var Models = []any{
	&User{}, &Swipe{}, &Match{}, &Unmatch{}, &Block{}, &Report{},
	&ProfileBoost{}, &Compliment{}, &ProfileView{}, &Message{},
}

// NewDB initializes the database connection using DSN from config.
// TranslateError is required: the match registry and boost allocator rely on
// gorm.ErrDuplicatedKey to recover uniqueness races.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// AutoMigrate ensures schema is in sync with models.
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
