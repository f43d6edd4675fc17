package models

import (
	"time"

	"harmonic/internal/feed"

	"gorm.io/gorm"
)

// Media types a user can log.
const (
	MediaTypeBook   = "book"
	MediaTypeMovie  = "movie"
	MediaTypeGame   = "game"
	MediaTypeSeries = "series"
	MediaTypeAnime  = "anime"
	MediaTypeMusic  = "music"
)

// Progress states for a logged media entry.
const (
	MediaStatusCompleted  = "completed"
	MediaStatusInProgress = "in-progress"
	MediaStatusPlanned    = "planned"
	MediaStatusDropped    = "dropped"
)

// MediaItem is a logged media entry: a movie watched, book read, game
// played, and so on.
type MediaItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	Title  string `gorm:"not null" json:"title"`
	Type   string `gorm:"type:varchar(20);not null;index" json:"type"`
	Status string `gorm:"type:varchar(20);default:'completed'" json:"status"`
	// Rating is 0-10; 0 means unrated.
	Rating   int    `json:"rating"`
	Review   string `gorm:"type:text" json:"review"`
	CoverURL string `json:"cover_url"`
	// Visibility defaults to friends for media entries (posts default to
	// public, see Post).
	Visibility feed.Visibility `gorm:"type:varchar(16);default:'friends'" json:"visibility"`
	// LoggedDate is the day the user assigns to the entry ("when I finished
	// it"), distinct from CreatedAt which orders the feed.
	LoggedDate string   `gorm:"type:varchar(10)" json:"logged_date"`
	Tags       []string `gorm:"serializer:json" json:"tags"`

	// Type-specific extra fields; only the one matching Type is populated.
	Author      string `json:"author,omitempty"`
	Director    string `json:"director,omitempty"`
	Platform    string `json:"platform,omitempty"`
	SeasonCount string `json:"season_count,omitempty"`
	Studio      string `json:"studio,omitempty"`
	Artist      string `json:"artist,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidMediaType reports whether t is a recognized media type.
func ValidMediaType(t string) bool {
	switch t {
	case MediaTypeBook, MediaTypeMovie, MediaTypeGame, MediaTypeSeries, MediaTypeAnime, MediaTypeMusic:
		return true
	}
	return false
}

// ValidMediaStatus reports whether s is a recognized progress state.
func ValidMediaStatus(s string) bool {
	switch s {
	case MediaStatusCompleted, MediaStatusInProgress, MediaStatusPlanned, MediaStatusDropped:
		return true
	}
	return false
}

// feed.Item implementation

func (m *MediaItem) ContentID() uint                    { return m.ID }
func (m *MediaItem) ContentOwner() uint                 { return m.UserID }
func (m *MediaItem) ContentVisibility() feed.Visibility { return m.Visibility }
func (m *MediaItem) ContentCreatedAt() time.Time        { return m.CreatedAt }
func (m *MediaItem) ContentKind() feed.Kind             { return feed.KindMedia }
