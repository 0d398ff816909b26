// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"pawhaven/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var species = []string{"cat", "dog", "rabbit", "bird", "guinea pig"}

var categories = []string{
	models.CategoryGeneral,
	models.CategoryAdoption,
	models.CategoryAdvice,
	models.CategoryLostFound,
	models.CategoryUrgent,
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a forum post for the given user with a
// realistic created_at spread over the last 90 days.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	sp := species[f.rng.Intn(len(species))]
	title := fmt.Sprintf("%s %s in %s", gofakeit.AdjectiveDescriptive(), sp, gofakeit.City())
	post := &models.Post{
		Title:    strings.ToUpper(title[:1]) + title[1:],
		Content:  gofakeit.Paragraph(1, 3, 8, "\n"),
		Category: categories[f.rng.Intn(len(categories))],
		UserID:   user.ID,
		Views:    int64(f.rng.Intn(500)),
	}

	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided post authored by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		PostID:  post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReaction persists a like from `user` on `post`. Duplicate pairs are
// silently ignored so random engagement loops stay simple.
func (f *Factory) CreateReaction(user *models.User, post *models.Post) error {
	reaction := &models.Reaction{
		UserID: user.ID,
		PostID: post.ID,
	}
	err := f.db.Create(reaction).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return nil
	}
	return err
}

// CreateListing constructs and persists an adoption listing for the given user.
func (f *Factory) CreateListing(user *models.User, overrides ...func(*models.Listing)) (*models.Listing, error) {
	listing := &models.Listing{
		PetName:     gofakeit.PetName(),
		Species:     species[f.rng.Intn(len(species))],
		Breed:       gofakeit.Adjective() + " " + gofakeit.Animal(),
		AgeMonths:   f.rng.Intn(120) + 2,
		Description: gofakeit.Paragraph(1, 2, 6, "\n"),
		Status:      models.ListingAvailable,
		City:        gofakeit.City(),
		UserID:      user.ID,
	}

	for _, override := range overrides {
		override(listing)
	}

	if err := f.db.Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// CreateSighting constructs and persists a stray sighting near the given
// coordinates, spread over the last `maxDays` days.
func (f *Factory) CreateSighting(user *models.User, lat, lng float64, maxDays int, overrides ...func(*models.Sighting)) (*models.Sighting, error) {
	if maxDays <= 0 {
		maxDays = 14
	}
	sighting := &models.Sighting{
		Species:     species[f.rng.Intn(len(species))],
		Description: gofakeit.Sentence(12),
		Latitude:    lat + (f.rng.Float64()-0.5)*0.2,
		Longitude:   lng + (f.rng.Float64()-0.5)*0.2,
		SightedAt:   time.Now().Add(-time.Duration(f.rng.Intn(maxDays*24)) * time.Hour),
		UserID:      user.ID,
	}

	for _, override := range overrides {
		override(sighting)
	}

	if err := f.db.Create(sighting).Error; err != nil {
		return nil, err
	}
	return sighting, nil
}
