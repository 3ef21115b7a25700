package models

import "time"

// Album is a local cache of a Spotify album. The id is the Spotify album id
// and is never regenerated; rows are only ever refreshed by re-upsert from
// the same id. Duration is the summed track length in milliseconds.
type Album struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Artist      string    `gorm:"not null" json:"artist"` // all artist names joined with ", "
	ReleaseDate string    `json:"release_date"`           // day, month or year granularity
	CoverURL    *string   `json:"cover_url,omitempty"`
	SpotifyURL  string    `json:"spotify_url"`
	Genre       *string   `json:"genre,omitempty"`
	Label       *string   `json:"label,omitempty"`
	Duration    *int      `json:"duration,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Album) TableName() string {
	return "albums"
}
