package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"vinalysis/internal/config"
	"vinalysis/internal/httpapi/models"
	"vinalysis/internal/httpapi/repository"
	"vinalysis/internal/identity/google"
)

// Claims carried by every access token
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IdentityProvider is the external OAuth capability: a consent URL and a
// code-for-profile exchange. Implemented by the Google client.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*google.Profile, error)
}

type AuthService interface {
	LoginURL(state string) string
	// LoginState issues a short-lived signed state for the OAuth round
	// trip so the callback can tell its own logins from forged ones.
	LoginState() (string, error)
	// ValidateLoginState checks a state echoed back by the provider.
	ValidateLoginState(state string) error
	// LoginWithGoogle exchanges the OAuth code, upserts the user row from
	// the provider profile and issues this service's own token pair.
	LoginWithGoogle(ctx context.Context, code string) (accessToken, refreshToken string, user *models.User, err error)
	RefreshAccessToken(refreshToken string) (string, error)
	RevokeToken(refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	identity         IdentityProvider
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	identity IdentityProvider,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		identity:         identity,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.identity.AuthCodeURL(state)
}

// loginStateSubject distinguishes state tokens from access tokens signed
// with the same secret.
const loginStateSubject = "login-state"

const loginStateTTL = 10 * time.Minute

func (s *authService) LoginState() (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   loginStateSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(loginStateTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign login state: %w", err)
	}
	return signed, nil
}

func (s *authService) ValidateLoginState(state string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid || claims.Subject != loginStateSubject {
		return ErrInvalidState
	}
	return nil
}

func (s *authService) LoginWithGoogle(ctx context.Context, code string) (string, string, *models.User, error) {
	profile, err := s.identity.Exchange(ctx, code)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	// The provider subject is the user's primary key; profile fields are
	// refreshed on every login.
	user := &models.User{
		ID:              profile.Sub,
		Email:           profile.Email,
		FirstName:       profile.GivenName,
		LastName:        profile.FamilyName,
		ProfileImageURL: profile.Picture,
	}
	if err := s.userRepo.Upsert(user); err != nil {
		return "", "", nil, fmt.Errorf("upsert user: %w", err)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

func (s *authService) RefreshAccessToken(refreshToken string) (string, error) {
	stored, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("load refresh token: %w", err)
	}

	if stored.Revoked {
		return "", ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		return "", ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	return s.generateAccessToken(user)
}

func (s *authService) RevokeToken(refreshToken string) error {
	stored, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("load refresh token: %w", err)
	}
	return s.refreshTokenRepo.Revoke(stored.ID)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// generateRefreshToken issues an opaque token persisted server-side so it
// can be revoked.
func (s *authService) generateRefreshToken(user *models.User) (string, error) {
	token := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String() + uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(token); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token.Token, nil
}
