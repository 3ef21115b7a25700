package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vinalysis/internal/httpapi/dto"
	"vinalysis/internal/httpapi/models"
	"vinalysis/internal/identity/google"
)

// MockRatingRepository mocks repository.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Update(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) DeleteByID(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByID(id string) (*models.Rating, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByUserAndAlbum(userID, albumID string) (*models.Rating, error) {
	args := m.Called(userID, albumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByUser(userID string) ([]models.Rating, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

// MockAlbumRepository mocks repository.AlbumRepository
type MockAlbumRepository struct {
	mock.Mock
}

func (m *MockAlbumRepository) Upsert(album *models.Album) error {
	args := m.Called(album)
	return args.Error(0)
}

func (m *MockAlbumRepository) GetByID(id string) (*models.Album, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Album), args.Error(1)
}

// MockCatalog mocks the external catalog capability
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Album), args.Error(1)
}

func (m *MockCatalog) SearchAlbums(ctx context.Context, query string, limit int) ([]models.Album, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Album), args.Error(1)
}

// MockAlbumService mocks AlbumService for rating service tests
type MockAlbumService struct {
	mock.Mock
}

func (m *MockAlbumService) Resolve(ctx context.Context, albumID string) (*models.Album, error) {
	args := m.Called(ctx, albumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Album), args.Error(1)
}

func (m *MockAlbumService) Search(ctx context.Context, userID, query string, limit int) ([]dto.AlbumWithRating, error) {
	args := m.Called(ctx, userID, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.AlbumWithRating), args.Error(1)
}

func (m *MockAlbumService) GetWithUserRating(ctx context.Context, userID, albumID string) (*dto.AlbumWithRating, error) {
	args := m.Called(ctx, userID, albumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AlbumWithRating), args.Error(1)
}

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks repository.RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(refreshToken *models.RefreshToken) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(tokenString string) (*models.RefreshToken, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

// MockIdentityProvider mocks the OAuth capability
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, code string) (*google.Profile, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*google.Profile), args.Error(1)
}
