package models

import (
	"time"

	"harmonic/internal/feed"

	"gorm.io/gorm"
)

// Post categories shown as tabs in the feed composer.
const (
	PostCategoryThought = "thought"
	PostCategoryReview  = "review"
	PostCategoryStory   = "story"
)

// Post represents a freeform social post.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Category string `gorm:"type:varchar(20);default:'thought'" json:"category"`
	// Visibility defaults to public for posts. Media entries default to
	// friends; the asymmetry is inherited product behavior.
	Visibility feed.Visibility `gorm:"type:varchar(16);default:'public'" json:"visibility"`
	// VoteCount is not persisted; computed at query time
	VoteCount int `gorm:"->" json:"vote_count"`
	// CommentCount is not persisted; computed at query time
	CommentCount int `gorm:"->" json:"comment_count"`
	// Voted indicates whether the current requesting user voted on this post (computed)
	Voted     bool           `gorm:"->" json:"voted"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidPostCategory reports whether c is a recognized post category.
func ValidPostCategory(c string) bool {
	switch c {
	case PostCategoryThought, PostCategoryReview, PostCategoryStory:
		return true
	}
	return false
}

// feed.Item implementation

func (p *Post) ContentID() uint                    { return p.ID }
func (p *Post) ContentOwner() uint                 { return p.UserID }
func (p *Post) ContentVisibility() feed.Visibility { return p.Visibility }
func (p *Post) ContentCreatedAt() time.Time        { return p.CreatedAt }
func (p *Post) ContentKind() feed.Kind             { return feed.KindPost }

// Vote records a single user's vote on a post. The (user, post) pair is
// unique; voting is a toggle.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_vote_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
