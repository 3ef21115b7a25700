package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"vinalysis/internal/catalog/spotify"
	"vinalysis/internal/httpapi/dto"
	"vinalysis/internal/httpapi/models"
	"vinalysis/internal/httpapi/repository"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50

	// Bound on concurrent rating lookups when enriching search results
	enrichWorkers = 8
)

// Catalog is the external music catalog capability: search by query and
// lookup by id. Implemented by the Spotify client.
type Catalog interface {
	GetAlbum(ctx context.Context, id string) (*models.Album, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error)
}

type AlbumService interface {
	// Resolve guarantees a local Album row exists for the catalog id,
	// fetching and caching it on miss.
	Resolve(ctx context.Context, albumID string) (*models.Album, error)
	Search(ctx context.Context, userID, query string, limit int) ([]dto.AlbumWithRating, error)
	GetWithUserRating(ctx context.Context, userID, albumID string) (*dto.AlbumWithRating, error)
}

type albumService struct {
	albumRepo  repository.AlbumRepository
	ratingRepo repository.RatingRepository
	catalog    Catalog
}

func NewAlbumService(albumRepo repository.AlbumRepository, ratingRepo repository.RatingRepository, catalog Catalog) AlbumService {
	return &albumService{
		albumRepo:  albumRepo,
		ratingRepo: ratingRepo,
		catalog:    catalog,
	}
}

// Resolve returns the cached album when present, with zero catalog calls.
// On a cache miss it fetches the album from the catalog and persists it,
// writing exactly one row per successful resolution.
func (s *albumService) Resolve(ctx context.Context, albumID string) (*models.Album, error) {
	if albumID == "" {
		return nil, ErrInvalidAlbumID
	}

	album, err := s.albumRepo.GetByID(albumID)
	if err == nil {
		return album, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load cached album: %w", err)
	}

	fetched, err := s.catalog.GetAlbum(ctx, albumID)
	if err != nil {
		if errors.Is(err, spotify.ErrNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.albumRepo.Upsert(fetched); err != nil {
		return nil, fmt.Errorf("cache album: %w", err)
	}

	return fetched, nil
}

// Search proxies a catalog search and attaches the caller's existing rating
// to each result. Lookups are independent per album, so they fan out
// concurrently with a bounded worker count. Search results are not
// persisted; only resolved albums enter the cache.
func (s *albumService) Search(ctx context.Context, userID, query string, limit int) ([]dto.AlbumWithRating, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	albums, err := s.catalog.SearchAlbums(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	results := make([]dto.AlbumWithRating, len(albums))
	sem := make(chan struct{}, enrichWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := range albums {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rating, err := s.ratingRepo.GetByUserAndAlbum(userID, albums[i].ID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = dto.NewAlbumWithRating(&albums[i], rating)
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("attach user ratings: %w", firstErr)
	}

	return results, nil
}

// GetWithUserRating resolves an album and pairs it with the caller's rating
// when one exists.
func (s *albumService) GetWithUserRating(ctx context.Context, userID, albumID string) (*dto.AlbumWithRating, error) {
	album, err := s.Resolve(ctx, albumID)
	if err != nil {
		return nil, err
	}

	rating, err := s.ratingRepo.GetByUserAndAlbum(userID, albumID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user rating: %w", err)
	}

	resp := dto.NewAlbumWithRating(album, rating)
	return &resp, nil
}
