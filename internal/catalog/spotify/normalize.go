package spotify

import (
	"fmt"
	"strings"

	"vinalysis/internal/httpapi/models"
)

// normalizeAlbum maps Spotify's loosely-typed album JSON into the strict
// Album shape: artist names joined with ", ", the first cover image, genres
// joined, per-track durations summed, absent fields mapped to nil. A payload
// missing its id or name is malformed and rejected outright rather than
// coerced into partial data.
func normalizeAlbum(p *albumPayload) (*models.Album, error) {
	if p.ID == "" || p.Name == "" {
		return nil, fmt.Errorf("malformed album payload: missing id or name")
	}

	names := make([]string, 0, len(p.Artists))
	for _, a := range p.Artists {
		names = append(names, a.Name)
	}

	album := &models.Album{
		ID:          p.ID,
		Name:        p.Name,
		Artist:      strings.Join(names, ", "),
		ReleaseDate: p.ReleaseDate,
		SpotifyURL:  p.ExternalURLs.Spotify,
	}

	if len(p.Images) > 0 {
		cover := p.Images[0].URL
		album.CoverURL = &cover
	}

	if len(p.Genres) > 0 {
		genre := strings.Join(p.Genres, ", ")
		album.Genre = &genre
	}

	if p.Label != "" {
		label := p.Label
		album.Label = &label
	}

	if p.Tracks != nil {
		total := 0
		for _, t := range p.Tracks.Items {
			total += t.DurationMS
		}
		album.Duration = &total
	}

	return album, nil
}
