package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vinalysis/internal/httpapi/models"
	"vinalysis/internal/httpapi/repository"
)

type RatingService interface {
	// Rate creates or updates the caller's rating for an album, resolving
	// the album through the catalog first. A nil listened applies the
	// auto-listened policy (true); an explicit false is honored.
	Rate(ctx context.Context, userID, albumID string, value float64, listened *bool) (*models.Rating, error)
	// Update edits an existing rating owned by the caller. Listened is
	// only changed when supplied.
	Update(ctx context.Context, userID, ratingID string, value float64, listened *bool) (*models.Rating, error)
	// Remove deletes a rating owned by the caller. Removing an id that is
	// absent, or that belongs to another user, is a no-op success.
	Remove(ctx context.Context, userID, ratingID string) error
	// ListForUser returns the caller's ratings with albums, best rating
	// first, newest first within ties. The full set is materialized.
	ListForUser(ctx context.Context, userID string) ([]models.Rating, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	albums     AlbumService
	statsCache *repository.StatsCache
	logger     zerolog.Logger
}

func NewRatingService(ratingRepo repository.RatingRepository, albums AlbumService, statsCache *repository.StatsCache, logger zerolog.Logger) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		albums:     albums,
		statsCache: statsCache,
		logger:     logger,
	}
}

// Rate upserts via check-then-write: two concurrent calls for the same
// (user, album) race on the existence check and resolve last-write-wins.
func (s *ratingService) Rate(ctx context.Context, userID, albumID string, value float64, listened *bool) (*models.Rating, error) {
	if !validRating(value) {
		return nil, ErrInvalidRating
	}
	// Storage holds one decimal place
	value = math.Round(value*10) / 10

	// Guarantee the album row exists; resolver failures propagate unchanged.
	if _, err := s.albums.Resolve(ctx, albumID); err != nil {
		return nil, err
	}

	// Auto-mark as listened when rating, unless the caller said otherwise.
	listenedValue := true
	if listened != nil {
		listenedValue = *listened
	}

	existing, err := s.ratingRepo.GetByUserAndAlbum(userID, albumID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load existing rating: %w", err)
	}

	var rating *models.Rating
	if existing != nil {
		existing.Rating = value
		existing.Listened = listenedValue
		if err := s.ratingRepo.Update(existing); err != nil {
			return nil, fmt.Errorf("update rating: %w", err)
		}
		rating = existing
	} else {
		rating = &models.Rating{
			UserID:   userID,
			AlbumID:  albumID,
			Rating:   value,
			Listened: listenedValue,
		}
		if err := s.ratingRepo.Create(rating); err != nil {
			return nil, fmt.Errorf("create rating: %w", err)
		}
	}

	s.invalidateStats(ctx, userID)
	return rating, nil
}

func (s *ratingService) Update(ctx context.Context, userID, ratingID string, value float64, listened *bool) (*models.Rating, error) {
	if !validRating(value) {
		return nil, ErrInvalidRating
	}
	value = math.Round(value*10) / 10

	rating, err := s.ratingRepo.GetByID(ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("load rating: %w", err)
	}
	// Another user's rating is indistinguishable from a missing one.
	if rating.UserID != userID {
		return nil, ErrRatingNotFound
	}

	rating.Rating = value
	if listened != nil {
		rating.Listened = *listened
	}

	if err := s.ratingRepo.Update(rating); err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return rating, nil
}

// validRating rejects non-finite values as well as anything outside
// [0.0, 5.0]; NaN compares false against both bounds, so the range check
// alone would let it through to storage and poison the stats payload.
func validRating(value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	return value >= 0 && value <= 5
}

func (s *ratingService) Remove(ctx context.Context, userID, ratingID string) error {
	rating, err := s.ratingRepo.GetByID(ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already gone; removal is idempotent.
			return nil
		}
		return fmt.Errorf("load rating: %w", err)
	}
	// Another user's rating is indistinguishable from a missing one, same
	// as Update: nothing is deleted and nobody's cache goes stale.
	if rating.UserID != userID {
		return nil
	}

	if err := s.ratingRepo.DeleteByID(ratingID); err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return nil
}

func (s *ratingService) ListForUser(ctx context.Context, userID string) ([]models.Rating, error) {
	ratings, err := s.ratingRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// invalidateStats drops the user's cached statistics after a rating write.
// A cache failure is logged, not surfaced: the write already succeeded and
// the TTL bounds the staleness.
func (s *ratingService) invalidateStats(ctx context.Context, userID string) {
	if err := s.statsCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate stats cache")
	}
}
