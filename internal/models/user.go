// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Default image references applied when a user leaves the fields blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents an account in the Warble application.
// Username and email are globally unique. Password holds only the bcrypt
// hash of the credential; plaintext is never persisted.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique;not null" json:"username"`
	Email          string    `gorm:"unique;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	ImageURL       string    `gorm:"not null;default:'/static/images/default-pic.png'" json:"image_url"`
	HeaderImageURL string    `gorm:"not null;default:'/static/images/warbler-hero.jpg'" json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:UserID" json:"messages,omitempty"`
}
