package service

import (
	"context"
	"errors"
	"time"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"

	"gorm.io/gorm"
)

// SightingService records and lists stray-animal sightings.
type SightingService struct {
	sightingRepo repository.SightingRepository
}

type CreateSightingInput struct {
	ViewerID    string
	Species     string
	Description string
	Latitude    float64
	Longitude   float64
	SightedAt   time.Time
}

func NewSightingService(sightingRepo repository.SightingRepository) *SightingService {
	return &SightingService{sightingRepo: sightingRepo}
}

func (s *SightingService) CreateSighting(ctx context.Context, in CreateSightingInput) (*models.Sighting, error) {
	if in.ViewerID == "" {
		return nil, models.NewUnauthorizedError("Sign in to report a sighting")
	}
	if in.Species == "" {
		return nil, models.NewValidationError("Species is required")
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return nil, models.NewValidationError("Latitude must be between -90 and 90")
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return nil, models.NewValidationError("Longitude must be between -180 and 180")
	}

	sightedAt := in.SightedAt
	if sightedAt.IsZero() {
		sightedAt = time.Now().UTC()
	}
	if sightedAt.After(time.Now().UTC().Add(time.Minute)) {
		return nil, models.NewValidationError("Sighting time cannot be in the future")
	}

	sighting := &models.Sighting{
		Species:     in.Species,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		SightedAt:   sightedAt,
		UserID:      in.ViewerID,
	}
	if err := s.sightingRepo.Create(ctx, sighting); err != nil {
		return nil, err
	}
	return sighting, nil
}

func (s *SightingService) GetSighting(ctx context.Context, id string) (*models.Sighting, error) {
	sighting, err := s.sightingRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Sighting", id)
	}
	if err != nil {
		return nil, err
	}
	return sighting, nil
}

func (s *SightingService) ListSightings(ctx context.Context, filter repository.SightingFilter, limit, offset int) ([]*models.Sighting, error) {
	if filter.HasBounds {
		if filter.MinLat > filter.MaxLat || filter.MinLng > filter.MaxLng {
			return nil, models.NewValidationError("Invalid bounding box")
		}
	}
	return s.sightingRepo.List(ctx, filter, limit, offset)
}
