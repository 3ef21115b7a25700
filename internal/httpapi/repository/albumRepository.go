package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vinalysis/internal/httpapi/models"
)

// AlbumRepository is the local catalog cache. Albums are keyed by their
// Spotify-assigned id and written insert-or-replace; individual fields are
// never deleted, only refreshed by a full re-upsert.
type AlbumRepository interface {
	Upsert(album *models.Album) error
	GetByID(id string) (*models.Album, error)
}

type albumRepository struct {
	db *gorm.DB
}

func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepository{db: db}
}

// Upsert inserts the album or replaces every field of an existing row with
// the same catalog id.
func (r *albumRepository) Upsert(album *models.Album) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(album).Error
}

// GetByID retrieves a cached album. A miss surfaces gorm.ErrRecordNotFound.
func (r *albumRepository) GetByID(id string) (*models.Album, error) {
	var album models.Album
	if err := r.db.First(&album, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &album, nil
}
