package service

import (
	"context"
	"errors"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"

	"gorm.io/gorm"
)

// ListingService manages adoption listings.
type ListingService struct {
	listingRepo repository.ListingRepository
}

type CreateListingInput struct {
	ViewerID    string
	PetName     string
	Species     string
	Breed       string
	AgeMonths   int
	Description string
	City        string
}

func NewListingService(listingRepo repository.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	if in.ViewerID == "" {
		return nil, models.NewUnauthorizedError("Sign in to create a listing")
	}
	if in.PetName == "" {
		return nil, models.NewValidationError("Pet name is required")
	}
	if in.Species == "" {
		return nil, models.NewValidationError("Species is required")
	}
	if in.AgeMonths < 0 {
		return nil, models.NewValidationError("Age cannot be negative")
	}

	listing := &models.Listing{
		PetName:     in.PetName,
		Species:     in.Species,
		Breed:       in.Breed,
		AgeMonths:   in.AgeMonths,
		Description: in.Description,
		Status:      models.ListingAvailable,
		City:        in.City,
		UserID:      in.ViewerID,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Listing", id)
	}
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) ListListings(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*models.Listing, error) {
	return s.listingRepo.List(ctx, filter, limit, offset)
}

// UpdateStatus moves a listing along available -> pending -> adopted. Only
// the owner may change it.
func (s *ListingService) UpdateStatus(ctx context.Context, id, viewerID, status string) (*models.Listing, error) {
	if viewerID == "" {
		return nil, models.NewUnauthorizedError("Sign in to update a listing")
	}
	switch status {
	case models.ListingAvailable, models.ListingPending, models.ListingAdopted:
		// valid
	default:
		return nil, models.NewValidationError("Invalid listing status")
	}

	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != viewerID {
		return nil, models.NewUnauthorizedError("You can only update your own listings")
	}

	if err := s.listingRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", id)
		}
		return nil, err
	}
	listing.Status = status
	return listing, nil
}
