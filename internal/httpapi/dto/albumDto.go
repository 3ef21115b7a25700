package dto

import (
	"time"

	"vinalysis/internal/httpapi/models"
)

// AlbumResponse mirrors the cached album row
type AlbumResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Artist      string    `json:"artist"`
	ReleaseDate string    `json:"release_date"`
	CoverURL    *string   `json:"cover_url"`
	SpotifyURL  string    `json:"spotify_url"`
	Genre       *string   `json:"genre"`
	Label       *string   `json:"label"`
	Duration    *int      `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromModelToAlbumResponse converts an Album model to AlbumResponse DTO
func FromModelToAlbumResponse(album *models.Album) AlbumResponse {
	return AlbumResponse{
		ID:          album.ID,
		Name:        album.Name,
		Artist:      album.Artist,
		ReleaseDate: album.ReleaseDate,
		CoverURL:    album.CoverURL,
		SpotifyURL:  album.SpotifyURL,
		Genre:       album.Genre,
		Label:       album.Label,
		Duration:    album.Duration,
		CreatedAt:   album.CreatedAt,
	}
}

// AlbumWithRating is an album plus the requesting user's rating, when one
// exists. Search results and album detail both use this shape.
type AlbumWithRating struct {
	AlbumResponse
	UserRating *RatingResponse `json:"user_rating,omitempty"`
}

// NewAlbumWithRating attaches an optional user rating to an album
func NewAlbumWithRating(album *models.Album, rating *models.Rating) AlbumWithRating {
	resp := AlbumWithRating{AlbumResponse: FromModelToAlbumResponse(album)}
	if rating != nil {
		resp.UserRating = FromModelToRatingResponse(rating)
	}
	return resp
}
