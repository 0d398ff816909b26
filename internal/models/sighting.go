package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sighting is a reported stray-animal sighting. Map rendering happens on the
// client; the backend only stores and filters coordinates.
type Sighting struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Species     string         `gorm:"not null;index" json:"species"`
	Description string         `gorm:"type:text" json:"description"`
	Latitude    float64        `gorm:"not null" json:"latitude"`
	Longitude   float64        `gorm:"not null" json:"longitude"`
	SightedAt   time.Time      `gorm:"not null;index" json:"sighted_at"`
	UserID      string         `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (s *Sighting) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
