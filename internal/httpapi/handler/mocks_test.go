package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"vinalysis/internal/httpapi/dto"
	"vinalysis/internal/httpapi/models"
	"vinalysis/internal/httpapi/service"
)

const testUserID = "user-123"

// newTestRouter builds a router with the auth middleware replaced by a stub
// that injects a fixed user identity.
func newTestRouter(register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("userID", testUserID)
		c.Next()
	})
	register(api)
	return r
}

// MockRatingService mocks service.RatingService
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Rate(ctx context.Context, userID, albumID string, value float64, listened *bool) (*models.Rating, error) {
	args := m.Called(ctx, userID, albumID, value, listened)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) Update(ctx context.Context, userID, ratingID string, value float64, listened *bool) (*models.Rating, error) {
	args := m.Called(ctx, userID, ratingID, value, listened)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) Remove(ctx context.Context, userID, ratingID string) error {
	args := m.Called(ctx, userID, ratingID)
	return args.Error(0)
}

func (m *MockRatingService) ListForUser(ctx context.Context, userID string) ([]models.Rating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

// MockAlbumService mocks service.AlbumService
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

// MockStatsService mocks service.StatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetUserStats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StatsResponse), args.Error(1)
}

// MockAuthService mocks service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) LoginURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockAuthService) LoginState() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateLoginState(state string) error {
	args := m.Called(state)
	return args.Error(0)
}

func (m *MockAuthService) LoginWithGoogle(ctx context.Context, code string) (string, string, *models.User, error) {
	args := m.Called(ctx, code)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*models.User), args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RevokeToken(refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
