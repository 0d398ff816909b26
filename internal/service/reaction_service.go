package service

import (
	"context"
	"errors"

	"pawhaven/internal/cache"
	"pawhaven/internal/middleware"
	"pawhaven/internal/models"
	"pawhaven/internal/repository"
	"pawhaven/internal/storeerr"

	"gorm.io/gorm"
)

// ReactionService toggles likes. The store's uniqueness constraint carries
// the idempotence: repeating a toggle in the same direction lands in the
// same state.
type ReactionService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
}

func NewReactionService(postRepo repository.PostRepository, reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
	}
}

// Toggle moves the viewer's like to the opposite of currentlyLiked and
// returns the resulting state. The client reports what it believes the
// current state is; the store constraint absorbs any disagreement.
func (s *ReactionService) Toggle(ctx context.Context, postID, viewerID string, currentlyLiked bool) (bool, error) {
	if viewerID == "" {
		return false, models.NewUnauthorizedError("Sign in to react")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("Post", postID)
		}
		return false, err
	}

	var err error
	liked := !currentlyLiked
	if currentlyLiked {
		err = s.reactionRepo.Unlike(ctx, postID, viewerID)
	} else {
		err = s.reactionRepo.Like(ctx, postID, viewerID)
	}
	if err != nil {
		switch {
		case storeerr.IsConflict(err):
			// The row already matched the requested state.
		case storeerr.IsSchemaMissing(err):
			middleware.DegradedToggles.Inc()
			return false, models.NewFeatureUnavailableError("Reactions are not available right now")
		default:
			return false, err
		}
	}

	// Coarse on purpose: one toggle moves counts on every listing page the
	// post appears on.
	cache.InvalidateForumLists(ctx)

	return liked, nil
}
