package repository

import (
	"vinalysis/internal/httpapi/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(rating *models.Rating) error
	Update(rating *models.Rating) error
	DeleteByID(id string) error
	GetByID(id string) (*models.Rating, error)
	GetByUserAndAlbum(userID, albumID string) (*models.Rating, error)
	ListByUser(userID string) ([]models.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create a new rating
func (r *ratingRepository) Create(rating *models.Rating) error {
	return r.db.Create(rating).Error
}

// Update an existing rating
func (r *ratingRepository) Update(rating *models.Rating) error {
	return r.db.Save(rating).Error
}

// DeleteByID removes a rating. Deleting an id that does not exist is a
// no-op, not an error: removal is idempotent.
func (r *ratingRepository) DeleteByID(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Rating{}).Error
}

// GetByID retrieves a rating by its generated id
func (r *ratingRepository) GetByID(id string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByUserAndAlbum retrieves a user's rating for a specific album
func (r *ratingRepository) GetByUserAndAlbum(userID, albumID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("user_id = ? AND album_id = ?", userID, albumID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListByUser retrieves all of a user's ratings with their albums, best
// rating first and newest first within equal ratings. The whole set is
// materialized so callers can sort-stable and compute statistics over it.
func (r *ratingRepository) ListByUser(userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Where("user_id = ?", userID).
		Preload("Album").
		Order("rating DESC, created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
