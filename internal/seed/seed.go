// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"warble/internal/credentials"
	"warble/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options control how much demo data is generated.
type Options struct {
	Users           int
	MessagesPerUser int
	FollowsPerUser  int
	LikesPerUser    int
	Password        string
}

// DefaultOptions returns a small, fast demo preset.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		MessagesPerUser: 5,
		FollowsPerUser:  3,
		LikesPerUser:    4,
		Password:        "password123",
	}
}

// clampText truncates text to at most max runes. Messages are bounded by
// rune count, so a byte-index cut could split a multi-byte character.
func clampText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// Run populates the database with fake users, messages, follows, and likes.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	hashed, err := credentials.Hash(opts.Password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Username:       fmt.Sprintf("%s_%d", gofakeit.Username(), i),
			Email:          fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Password:       hashed,
			ImageURL:       models.DefaultImageURL,
			HeaderImageURL: models.DefaultHeaderImageURL,
			Bio:            gofakeit.Sentence(8),
			Location:       gofakeit.City(),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	messages := make([]*models.Message, 0, opts.Users*opts.MessagesPerUser)
	for _, user := range users {
		for i := 0; i < opts.MessagesPerUser; i++ {
			text := clampText(gofakeit.Sentence(6+rng.Intn(8)), models.MaxMessageLength)
			message := &models.Message{
				Text:   text,
				UserID: user.ID,
			}
			if err := db.Create(message).Error; err != nil {
				return fmt.Errorf("seed message: %w", err)
			}
			messages = append(messages, message)
		}
	}

	for _, user := range users {
		seen := map[uint]bool{user.ID: true}
		for i := 0; i < opts.FollowsPerUser && len(seen) < len(users); i++ {
			target := users[rng.Intn(len(users))]
			if seen[target.ID] {
				continue
			}
			seen[target.ID] = true
			follow := &models.Follow{FollowerID: user.ID, FolloweeID: target.ID}
			if err := db.Create(follow).Error; err != nil {
				return fmt.Errorf("seed follow: %w", err)
			}
		}
	}

	for _, user := range users {
		seen := map[uint]bool{}
		for i := 0; i < opts.LikesPerUser && len(messages) > 0; i++ {
			message := messages[rng.Intn(len(messages))]
			// Users never like their own messages.
			if message.UserID == user.ID || seen[message.ID] {
				continue
			}
			seen[message.ID] = true
			like := &models.Like{UserID: user.ID, MessageID: message.ID}
			if err := db.Create(like).Error; err != nil {
				return fmt.Errorf("seed like: %w", err)
			}
		}
	}

	return nil
}
