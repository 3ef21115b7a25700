package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"vinalysis/internal/httpapi/models"
)

// ErrNotFound is returned when Spotify reports that an album id does not
// exist in the catalog.
var ErrNotFound = errors.New("album not found in catalog")

const (
	// Client-side throttle against Spotify's rate limits
	rateLimit = 10
	rateBurst = 20
)

// Config holds the Spotify client settings. APIURL and TokenURL are
// overridable so tests can point the client at a local server.
type Config struct {
	ClientID     string
	ClientSecret string
	APIURL       string
	TokenURL     string
}

// Client is an authenticated Spotify Web API client. Access tokens come
// from the client-credentials flow (no per-user token) and are cached until
// shortly before expiry.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	rateLimiter *rate.Limiter

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new Spotify API client
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.spotify.com/v1"
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = "https://accounts.spotify.com/api/token"
	}
	return &Client{
		cfg:         cfg,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// authenticate obtains a service-level access token via client-credential
// exchange, reusing the cached token while it is still valid.
func (c *Client) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.tokenExpiry) {
		return nil
	}

	authString := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}

	req.Header.Set("Authorization", "Basic "+authString)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify auth failed: %s - %s", resp.Status, string(body))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("spotify auth returned empty access token")
	}

	c.accessToken = tokenResp.AccessToken
	// Renew a minute early so in-flight requests don't race expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - time.Minute)

	return nil
}

// doRequest performs an authenticated, rate-limited GET against the API.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	if err := c.authenticate(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()

	apiURL := c.cfg.APIURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr errorPayload
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("spotify api error: %s - %s", resp.Status, apiErr.Error.Message)
		}
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// GetAlbum fetches full album detail (including per-track durations) and
// normalizes it into the local Album shape.
func (c *Client) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	var payload albumPayload
	if err := c.doRequest(ctx, "/albums/"+url.PathEscape(id), nil, &payload); err != nil {
		return nil, err
	}

	album, err := normalizeAlbum(&payload)
	if err != nil {
		return nil, err
	}
	return album, nil
}

// SearchAlbums searches the catalog and returns normalized album summaries.
// Summaries carry no track listing, so their duration stays nil.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error) {
	params := url.Values{
		"q":     []string{query},
		"type":  []string{"album"},
		"limit": []string{fmt.Sprintf("%d", limit)},
	}

	var result searchResponse
	if err := c.doRequest(ctx, "/search", params, &result); err != nil {
		return nil, err
	}

	if result.Albums == nil {
		return []models.Album{}, nil
	}

	albums := make([]models.Album, 0, len(result.Albums.Items))
	for i := range result.Albums.Items {
		album, err := normalizeAlbum(&result.Albums.Items[i])
		if err != nil {
			return nil, err
		}
		albums = append(albums, *album)
	}

	return albums, nil
}
