package models

import "time"

// Reaction is a viewer's like on a post. At most one row may exist per
// (post_id, user_id) pair; the composite unique index is what the toggle
// service's idempotence relies on.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_post_user" json:"post_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
