package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Forum categories. Category is an open string column; these are the values
// the application itself creates and filters on.
const (
	CategoryGeneral   = "general"
	CategoryAdoption  = "adoption"
	CategoryUrgent    = "urgent"
	CategoryAdvice    = "advice"
	CategoryLostFound = "lost-found"
)

// Post represents a forum post.
type Post struct {
	ID       string  `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string  `gorm:"not null" json:"title"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	Category string  `gorm:"not null;default:general;index" json:"category"`
	Slug     *string `gorm:"uniqueIndex" json:"slug,omitempty"`
	Pinned   bool    `gorm:"not null;default:false" json:"pinned"`
	Locked   bool    `gorm:"not null;default:false" json:"locked"`
	// Views is the raw display counter; it only ever grows.
	Views  int64  `gorm:"not null;default:0" json:"views"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	// LikeCount is not persisted; computed at enrichment time
	LikeCount int64 `gorm:"-" json:"like_count"`
	// CommentCount is not persisted; computed at enrichment time
	CommentCount int64 `gorm:"-" json:"comment_count"`
	// TrendScore is not persisted; read from the post_stats view or computed locally
	TrendScore float64 `gorm:"-" json:"trend_score"`
	// Liked indicates whether the current viewer liked this post (computed)
	Liked     bool           `gorm:"-" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// SlugValue returns the slug or "" when none is assigned.
func (p *Post) SlugValue() string {
	if p.Slug == nil {
		return ""
	}
	return *p.Slug
}
