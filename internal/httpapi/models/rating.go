package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating holds one user's rating of one album. At most one row exists per
// (user_id, album_id) pair; the service layer enforces this with a
// check-then-write upsert.
type Rating struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	AlbumID   string    `gorm:"not null;index" json:"album_id"`
	Rating    float64   `gorm:"type:decimal(2,1);not null" json:"rating"` // 0.0 to 5.0
	Listened  bool      `gorm:"default:false" json:"listened"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Album Album `json:"album,omitempty" gorm:"foreignKey:AlbumID"`
}

// BeforeCreate hook to set UUID before creating a Rating
func (rating *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	return
}

func (Rating) TableName() string {
	return "ratings"
}
