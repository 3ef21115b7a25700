package service

import "errors"

var (
	// Validation
	ErrInvalidRating  = errors.New("rating must be between 0.0 and 5.0")
	ErrInvalidAlbumID = errors.New("album id must not be empty")

	// Not found
	ErrAlbumNotFound  = errors.New("album not found")
	ErrRatingNotFound = errors.New("rating not found")
	ErrUserNotFound   = errors.New("user not found")

	// External catalog unreachable, erroring or returning malformed data
	ErrUpstream = errors.New("catalog upstream error")

	// Authentication
	ErrAuthFailed   = errors.New("authentication failed")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidState = errors.New("invalid login state")
)
