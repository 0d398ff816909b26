package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Adoption listing statuses.
const (
	ListingAvailable = "available"
	ListingPending   = "pending"
	ListingAdopted   = "adopted"
)

// Listing is an adoption listing for a single animal.
type Listing struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	PetName     string         `gorm:"not null" json:"pet_name"`
	Species     string         `gorm:"not null;index" json:"species"`
	Breed       string         `json:"breed,omitempty"`
	AgeMonths   int            `json:"age_months"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"not null;default:available;index" json:"status"`
	City        string         `gorm:"index" json:"city"`
	UserID      string         `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (l *Listing) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
