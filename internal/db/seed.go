package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo users, swipes,
// and profile views.
//
// Behavior:
//  1. Clears all engine tables.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords and a small
//     boost balance.
//  3. Generates ~200 swipes with ~70% likes; every 3rd like is answered so
//     mutual pairs exist without pre-creating Match rows (the engine creates
//     those on swipe).
//  4. Generates ~100 profile views.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{
		"messages", "profile_views", "compliments", "profile_boosts",
		"reports", "blocks", "unmatches", "matches", "swipes", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	log.Println("Cleared existing data")

	// --- Seed Users (10 male, 10 female) ---
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender := "male"
		if i > 10 {
			gender = "female"
		}

		user := User{
			ID:           uuid.NewString(),
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Gender:       gender,
			Active:       true,
			BoostCount:   r.Intn(3),
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}

	// --- Seed Swipes (~70% likes, every 3rd like answered) ---
	actions := []string{ActionLike, ActionLike, ActionLike, ActionLike,
		ActionLike, ActionLike, ActionSuperlike, ActionPass, ActionPass, ActionPass}
	count := 0
	for i := 0; i < 200; i++ {
		swiper := users[r.Intn(len(users))]
		swiped := users[r.Intn(len(users))]
		if swiper.ID == swiped.ID {
			continue
		}

		action := actions[r.Intn(len(actions))]
		swipe := Swipe{SwiperID: swiper.ID, SwipedID: swiped.ID, Action: action}
		if err := db.Create(&swipe).Error; err != nil {
			return fmt.Errorf("failed to create swipe: %w", err)
		}

		if action != ActionPass {
			count++
			if count%3 == 0 {
				back := Swipe{SwiperID: swiped.ID, SwipedID: swiper.ID, Action: ActionLike}
				if err := db.Create(&back).Error; err != nil {
					return fmt.Errorf("failed to create swipe: %w", err)
				}
			}
		}
	}

	// --- Seed Profile Views ---
	for i := 0; i < 100; i++ {
		viewer := users[r.Intn(len(users))]
		viewed := users[r.Intn(len(users))]
		if viewer.ID == viewed.ID {
			continue
		}
		view := ProfileView{ViewerID: viewer.ID, ViewedID: viewed.ID}
		if err := db.Create(&view).Error; err != nil {
			return fmt.Errorf("failed to create profile view: %w", err)
		}
	}

	log.Printf("Seeded %d users with swipes and views", len(users))
	return nil
}
