package spotify

// Raw Spotify API payloads. These are normalized into models.Album at the
// client boundary; nothing outside this package sees them.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type searchResponse struct {
	Albums *albumsPage `json:"albums"`
}

type albumsPage struct {
	Items []albumPayload `json:"items"`
}

type albumPayload struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Artists      []artistRef    `json:"artists"`
	ReleaseDate  string         `json:"release_date"`
	TotalTracks  int            `json:"total_tracks"`
	Images       []imagePayload `json:"images"`
	ExternalURLs externalURLs   `json:"external_urls"`
	Genres       []string       `json:"genres"`
	Label        string         `json:"label"`
	Tracks       *tracksPage    `json:"tracks"`
}

type artistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type imagePayload struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type tracksPage struct {
	Items []trackPayload `json:"items"`
}

type trackPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMS int    `json:"duration_ms"`
}

type errorPayload struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
