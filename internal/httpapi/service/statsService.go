package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"vinalysis/internal/httpapi/dto"
	"vinalysis/internal/httpapi/repository"
)

type StatsService interface {
	// GetUserStats computes aggregate statistics over the user's current
	// ratings, on demand, with a Redis cache in front.
	GetUserStats(ctx context.Context, userID string) (*dto.StatsResponse, error)
}

type statsService struct {
	ratingRepo repository.RatingRepository
	cache      *repository.StatsCache
	logger     zerolog.Logger
}

func NewStatsService(ratingRepo repository.RatingRepository, cache *repository.StatsCache, logger zerolog.Logger) StatsService {
	return &statsService{
		ratingRepo: ratingRepo,
		cache:      cache,
		logger:     logger,
	}
}

func (s *statsService) GetUserStats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	if payload, err := s.cache.Get(ctx, userID); err == nil {
		var cached dto.StatsResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
		// Unreadable entry; recompute below and overwrite it.
	} else if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("stats cache read failed")
	}

	ratings, err := s.ratingRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	stats := ComputeStats(ratings)
	resp := statsToResponse(stats)

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, userID, payload); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("stats cache write failed")
		}
	}

	return resp, nil
}

// statsToResponse renders the computed stats for the wire. Fields that are
// undefined over an empty rating set stay empty strings and are omitted.
func statsToResponse(stats Stats) *dto.StatsResponse {
	resp := &dto.StatsResponse{
		TotalRated:    stats.Count,
		AverageRating: stats.Average,
		UniqueArtists: stats.UniqueArtists,
		ListenedCount: stats.ListenedCount,
		Distribution:  make(map[string]int, len(stats.Distribution)),
	}

	for bucket, count := range stats.Distribution {
		resp.Distribution[strconv.Itoa(bucket)] = count
	}

	if stats.Count > 0 {
		resp.Median = dto.FormatRating(stats.Median)
		resp.MostCommonRating = dto.FormatRating(stats.Mode)
		resp.ListenedPercentage = strconv.FormatFloat(stats.ListenedPercentage, 'f', 1, 64)
		resp.HighestRating = dto.FormatRating(stats.Highest)
		resp.LowestRating = dto.FormatRating(stats.Lowest)
	}

	return resp
}
