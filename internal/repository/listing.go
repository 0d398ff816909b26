package repository

import (
	"context"

	"pawhaven/internal/models"

	"gorm.io/gorm"
)

// ListingFilter narrows adoption listing reads. Zero values mean "any".
type ListingFilter struct {
	Species string
	Status  string
	City    string
}

// ListingRepository defines the interface for adoption listings
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*models.Listing, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// listingRepository implements ListingRepository
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*models.Listing, error) {
	var listings []*models.Listing
	q := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if filter.Species != "" {
		q = q.Where("species = ?", filter.Species)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	err := q.Find(&listings).Error
	return listings, err
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
