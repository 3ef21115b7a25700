package dto

import (
	"errors"
	"math"
	"strconv"
	"time"

	"vinalysis/internal/httpapi/models"
)

// CreateRatingRequest creates or updates the caller's rating for an album.
// Rating travels as a string decimal ("4.5"); listened is optional and
// defaults server-side to true (auto-listened policy).
type CreateRatingRequest struct {
	AlbumID  string `json:"album_id" binding:"required"`
	Rating   string `json:"rating" binding:"required"`
	Listened *bool  `json:"listened"`
}

// UpdateRatingRequest edits an existing rating by id. Listened is only
// changed when explicitly supplied.
type UpdateRatingRequest struct {
	Rating   string `json:"rating" binding:"required"`
	Listened *bool  `json:"listened"`
}

// RatingResponse for returning rating information
type RatingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AlbumID   string    `json:"album_id"`
	Rating    string    `json:"rating"` // one decimal place, e.g. "4.5"
	Listened  bool      `json:"listened"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		ID:        rating.ID,
		UserID:    rating.UserID,
		AlbumID:   rating.AlbumID,
		Rating:    FormatRating(rating.Rating),
		Listened:  rating.Listened,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// RatingWithAlbumResponse pairs a rating with its cached album metadata
type RatingWithAlbumResponse struct {
	RatingResponse
	Album AlbumResponse `json:"album"`
}

// FromModelToRatingWithAlbum converts a Rating with a preloaded Album
func FromModelToRatingWithAlbum(rating *models.Rating) *RatingWithAlbumResponse {
	return &RatingWithAlbumResponse{
		RatingResponse: *FromModelToRatingResponse(rating),
		Album:          FromModelToAlbumResponse(&rating.Album),
	}
}

// FormatRating renders a rating value with one decimal place, matching the
// decimal(2,1) wire and storage format.
func FormatRating(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}

// ParseRating parses a string decimal rating from a request body.
// strconv accepts "NaN" and "Inf" spellings, which are never valid ratings.
func ParseRating(raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.New("rating must be a finite number")
	}
	return value, nil
}
