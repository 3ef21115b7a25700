package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vinalysis/internal/httpapi/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Upsert(user *models.User) error
	FindByID(id string) (*models.User, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert inserts the user or refreshes the profile fields of an existing row.
// Identity issuance is external, so the id is always caller-supplied.
func (r *userRepository) Upsert(user *models.User) error {
	user.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "profile_image_url", "updated_at",
		}),
	}).Create(user).Error
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		// return nil rather than a zero-value struct so callers can't
		// mistake a miss for a found user
		return nil, err
	}
	return &user, nil
}
