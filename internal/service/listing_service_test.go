package service

import (
	"context"
	"testing"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// listingRepoStub is a function-field stub for repository.ListingRepository.
type listingRepoStub struct {
	createFn       func(context.Context, *models.Listing) error
	getByIDFn      func(context.Context, string) (*models.Listing, error)
	listFn         func(context.Context, repository.ListingFilter, int, int) ([]*models.Listing, error)
	updateStatusFn func(context.Context, string, string) error
}

func (r *listingRepoStub) Create(ctx context.Context, listing *models.Listing) error {
	return r.createFn(ctx, listing)
}
func (r *listingRepoStub) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	return r.getByIDFn(ctx, id)
}
func (r *listingRepoStub) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*models.Listing, error) {
	return r.listFn(ctx, filter, limit, offset)
}
func (r *listingRepoStub) UpdateStatus(ctx context.Context, id, status string) error {
	return r.updateStatusFn(ctx, id, status)
}

var _ repository.ListingRepository = (*listingRepoStub)(nil)

func noopListingRepo() *listingRepoStub {
	return &listingRepoStub{
		createFn:  func(_ context.Context, _ *models.Listing) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Listing, error) { return &models.Listing{ID: id}, nil },
		listFn: func(_ context.Context, _ repository.ListingFilter, _, _ int) ([]*models.Listing, error) {
			return nil, nil
		},
		updateStatusFn: func(_ context.Context, _, _ string) error { return nil },
	}
}

func TestListingService_CreateListing_DefaultsToAvailable(t *testing.T) {
	repo := noopListingRepo()
	var created *models.Listing
	repo.createFn = func(_ context.Context, listing *models.Listing) error {
		created = listing
		return nil
	}
	svc := NewListingService(repo)

	listing, err := svc.CreateListing(context.Background(), CreateListingInput{
		ViewerID:  testViewerID,
		PetName:   "Biscuit",
		Species:   "dog",
		AgeMonths: 18,
		City:      "Portland",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ListingAvailable, listing.Status)
	assert.Equal(t, testViewerID, created.UserID)
}

func TestListingService_CreateListing_Validation(t *testing.T) {
	svc := NewListingService(noopListingRepo())

	tests := []struct {
		name string
		in   CreateListingInput
		code string
	}{
		{"anonymous", CreateListingInput{PetName: "Biscuit", Species: "dog"}, models.CodeUnauthorized},
		{"missing pet name", CreateListingInput{ViewerID: testViewerID, Species: "dog"}, models.CodeValidation},
		{"missing species", CreateListingInput{ViewerID: testViewerID, PetName: "Biscuit"}, models.CodeValidation},
		{"negative age", CreateListingInput{ViewerID: testViewerID, PetName: "Biscuit", Species: "dog", AgeMonths: -1}, models.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateListing(context.Background(), tt.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestListingService_UpdateStatus_OwnerOnly(t *testing.T) {
	repo := noopListingRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.Listing, error) {
		return &models.Listing{ID: id, UserID: "99999999-8888-7777-6666-555555555555", Status: models.ListingAvailable}, nil
	}
	svc := NewListingService(repo)

	_, err := svc.UpdateStatus(context.Background(), "l1", testViewerID, models.ListingAdopted)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

func TestListingService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := NewListingService(noopListingRepo())

	_, err := svc.UpdateStatus(context.Background(), "l1", testViewerID, "sold")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestListingService_UpdateStatus_Transitions(t *testing.T) {
	repo := noopListingRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.Listing, error) {
		return &models.Listing{ID: id, UserID: testViewerID, Status: models.ListingPending}, nil
	}
	var updatedTo string
	repo.updateStatusFn = func(_ context.Context, _, status string) error {
		updatedTo = status
		return nil
	}
	svc := NewListingService(repo)

	listing, err := svc.UpdateStatus(context.Background(), "l1", testViewerID, models.ListingAdopted)
	require.NoError(t, err)
	assert.Equal(t, models.ListingAdopted, listing.Status)
	assert.Equal(t, models.ListingAdopted, updatedTo)
}

func TestListingService_GetListing_NotFound(t *testing.T) {
	repo := noopListingRepo()
	repo.getByIDFn = func(_ context.Context, _ string) (*models.Listing, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewListingService(repo)

	_, err := svc.GetListing(context.Background(), "missing")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
