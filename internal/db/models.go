package db

import (
	"time"
)

// Swipe actions recorded in the ledger.
const (
	ActionLike      = "like"
	ActionPass      = "pass"
	ActionSuperlike = "superlike"
)

// Rematch handshake states carried on an Unmatch row. An accepted rematch
// deletes the row, so "accepted" never persists.
const (
	RematchNone     = "none"
	RematchPending  = "pending"
	RematchRejected = "rejected"
)

// Compliment states.
const (
	ComplimentPending  = "pending"
	ComplimentAccepted = "accepted"
	ComplimentDeclined = "declined"
)

// User table. Profiles proper live in an external subsystem; the engine only
// needs identity plus the billing-written premium/boost balance fields.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	Gender       string `gorm:"size:16;not null"`
	IsPremium    bool   `gorm:"not null;default:false"`
	BoostCount   int    `gorm:"not null;default:0"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Swipe is one append-only like/pass/superlike event.
//
// Multiple rows per ordered pair are tolerated; "has X ever liked Y" is
// answered by any row with action in (like, superlike).
//
// Indexes:
//   - idx_swiped_action_created(swiped_id, action, created_at DESC)
//     Optimizes "who liked me" lists.
//   - idx_swiper_swiped(swiper_id, swiped_id)
//     Optimizes O(1) mutual-like checks.
type Swipe struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	SwiperID  string    `gorm:"size:36;not null;index:idx_swiper_swiped,priority:1"`
	SwipedID  string    `gorm:"size:36;not null;index:idx_swiped_action_created,priority:1;index:idx_swiper_swiped,priority:2"`
	Action    string    `gorm:"size:16;not null;index:idx_swiped_action_created,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_swiped_action_created,priority:3,sort:desc"`
}

// Match is the canonical relationship row for an unordered user pair.
//
// Invariant: User1ID < User2ID under lexicographic string comparison, and the
// unique index on the pair guarantees at most one row regardless of which
// side's swipe landed last.
type Match struct {
	ID        string    `gorm:"primaryKey;size:36"`
	User1ID   string    `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:1"`
	User2ID   string    `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Unmatch archives a dissolved Match and carries the rematch handshake.
// MatchID references the deleted Match's former id, which chat messages still
// point at. One row per historically-unmatched pair.
type Unmatch struct {
	ID                 uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID            string    `gorm:"size:36;not null;index"`
	User1ID            string    `gorm:"size:36;not null;uniqueIndex:idx_unmatch_pair,priority:1"`
	User2ID            string    `gorm:"size:36;not null;uniqueIndex:idx_unmatch_pair,priority:2"`
	UnmatchedBy        string    `gorm:"size:36;not null"`
	RematchRequestedBy string    `gorm:"size:36"`
	RematchStatus      string    `gorm:"size:16;not null;default:none"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

// Block is a directional record whose effect is mutual invisibility; reads
// must always check both directions.
type Block struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	BlockerID string    `gorm:"size:36;not null;uniqueIndex:idx_block_pair,priority:1"`
	BlockedID string    `gorm:"size:36;not null;uniqueIndex:idx_block_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Report holds at most one row per ordered reporter->reported pair (upsert).
type Report struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ReporterID string    `gorm:"size:36;not null;uniqueIndex:idx_report_pair,priority:1"`
	ReportedID string    `gorm:"size:36;not null;uniqueIndex:idx_report_pair,priority:2"`
	Reason     string    `gorm:"size:64;not null"`
	Details    string    `gorm:"size:1024"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// ProfileBoost is a time-bounded visibility grant. At most one unexpired row
// per user; the allocator enforces this under a row lock on the owning User.
type ProfileBoost struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"size:36;not null;index:idx_boost_user_expiry,priority:1"`
	StartedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index:idx_boost_user_expiry,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Compliment is a one-shot opener; acceptance creates a Match and seeds the
// first chat message.
type Compliment struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	SenderID    string    `gorm:"size:36;not null;uniqueIndex:idx_compliment_pair,priority:1"`
	RecipientID string    `gorm:"size:36;not null;uniqueIndex:idx_compliment_pair,priority:2;index"`
	Message     string    `gorm:"size:512;not null"`
	Status      string    `gorm:"size:16;not null;default:pending"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// ProfileView is one append-only profile-view event; the viewers screen
// groups these by viewer.
type ProfileView struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ViewerID  string    `gorm:"size:36;not null"`
	ViewedID  string    `gorm:"size:36;not null;index:idx_viewed_created,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_viewed_created,priority:2,sort:desc"`
}

// Message is an opaque chat entry keyed by match id. Messages survive the
// deletion of their Match so unmatched history stays queryable.
type Message struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	MatchID   string     `gorm:"size:36;not null;index:idx_message_match_created,priority:1"`
	SenderID  string     `gorm:"size:36;not null"`
	Content   string     `gorm:"size:2048;not null"`
	ReadAt    *time.Time `gorm:""`
	CreatedAt time.Time  `gorm:"autoCreateTime;index:idx_message_match_created,priority:2,sort:desc"`
}
