package models

import (
	"time"
)

// Notification kinds delivered to users.
const (
	NotificationFriendRequest = "friend_request"
	NotificationFriendAccept  = "friend_accept"
	NotificationVote          = "vote"
	NotificationComment       = "comment"
)

// Notification is a persisted in-app notification. Live delivery happens
// over the WebSocket hub; this row is what the bell icon lists.
type Notification struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	// ActorID is the user whose action produced the notification.
	ActorID uint   `gorm:"not null" json:"actor_id"`
	Actor   User   `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Kind    string `gorm:"type:varchar(30);not null" json:"kind"`
	// PostID is set for vote/comment notifications.
	PostID    *uint     `json:"post_id,omitempty"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
