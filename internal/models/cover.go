package models

import (
	"time"
)

// CoverImage is an uploaded media cover, stored content-addressed by the
// SHA-256 of the original upload. Renditions (JPEG and WebP) live on disk
// under the hash directory.
type CoverImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Hash      string    `gorm:"uniqueIndex;size:64;not null" json:"hash"`
	Format    string    `gorm:"type:varchar(10)" json:"format"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
