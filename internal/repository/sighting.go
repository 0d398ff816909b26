package repository

import (
	"context"
	"time"

	"pawhaven/internal/models"

	"gorm.io/gorm"
)

// SightingFilter narrows stray sighting reads. A zero bounding box or zero
// Since means "any".
type SightingFilter struct {
	Species string
	Since   time.Time
	// Bounding box, only applied when HasBounds is set.
	HasBounds bool
	MinLat    float64
	MaxLat    float64
	MinLng    float64
	MaxLng    float64
}

// SightingRepository defines the interface for stray sighting reports
type SightingRepository interface {
	Create(ctx context.Context, sighting *models.Sighting) error
	GetByID(ctx context.Context, id string) (*models.Sighting, error)
	List(ctx context.Context, filter SightingFilter, limit, offset int) ([]*models.Sighting, error)
}

// sightingRepository implements SightingRepository
type sightingRepository struct {
	db *gorm.DB
}

// NewSightingRepository creates a new sighting repository
func NewSightingRepository(db *gorm.DB) SightingRepository {
	return &sightingRepository{db: db}
}

func (r *sightingRepository) Create(ctx context.Context, sighting *models.Sighting) error {
	return r.db.WithContext(ctx).Create(sighting).Error
}

func (r *sightingRepository) GetByID(ctx context.Context, id string) (*models.Sighting, error) {
	var sighting models.Sighting
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&sighting).Error
	if err != nil {
		return nil, err
	}
	return &sighting, nil
}

func (r *sightingRepository) List(ctx context.Context, filter SightingFilter, limit, offset int) ([]*models.Sighting, error) {
	var sightings []*models.Sighting
	q := r.db.WithContext(ctx).
		Preload("User").
		Order("sighted_at DESC").
		Limit(limit).
		Offset(offset)
	if filter.Species != "" {
		q = q.Where("species = ?", filter.Species)
	}
	if !filter.Since.IsZero() {
		q = q.Where("sighted_at >= ?", filter.Since)
	}
	if filter.HasBounds {
		q = q.Where("latitude BETWEEN ? AND ?", filter.MinLat, filter.MaxLat).
			Where("longitude BETWEEN ? AND ?", filter.MinLng, filter.MaxLng)
	}
	err := q.Find(&sightings).Error
	return sightings, err
}
