// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a member of the Harmonic community.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"unique;not null" json:"username"`
	Email       string `gorm:"unique;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `json:"display_name"`
	// Avatar is a short string, typically an emoji picked in the profile editor.
	Avatar string `json:"avatar"`
	// Title is the honorific shown next to the display name. User-chosen,
	// or assigned by an admin.
	Title      string         `json:"title"`
	Bio        string         `json:"bio"`
	IsAdmin    bool           `gorm:"default:false" json:"is_admin"`
	LastSeenAt *time.Time     `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Posts      []Post      `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	MediaItems []MediaItem `gorm:"foreignKey:UserID" json:"media_items,omitempty"`
}
