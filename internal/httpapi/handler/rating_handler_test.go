package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vinalysis/internal/httpapi/dto"
	"vinalysis/internal/httpapi/models"
	"vinalysis/internal/httpapi/service"
)

func TestCreateRating_Success(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	ratingService.On("Rate", mock.Anything, testUserID, "album-1", 4.5, (*bool)(nil)).
		Return(&models.Rating{
			ID:       "rating-1",
			UserID:   testUserID,
			AlbumID:  "album-1",
			Rating:   4.5,
			Listened: true,
		}, nil)

	body := `{"album_id": "album-1", "rating": "4.5"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ratings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RatingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rating-1", resp.ID)
	assert.Equal(t, "4.5", resp.Rating)
	assert.True(t, resp.Listened)
	ratingService.AssertExpectations(t)
}

func TestCreateRating_ListenedFalsePassedThrough(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	ratingService.On("Rate", mock.Anything, testUserID, "album-1", 3.0, mock.MatchedBy(func(listened *bool) bool {
		return listened != nil && !*listened
	})).Return(&models.Rating{ID: "rating-1", UserID: testUserID, AlbumID: "album-1", Rating: 3.0}, nil)

	body := `{"album_id": "album-1", "rating": "3.0", "listened": false}`
	req := httptest.NewRequest(http.MethodPost, "/api/ratings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	ratingService.AssertExpectations(t)
}

func TestCreateRating_MissingFields(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	req := httptest.NewRequest(http.MethodPost, "/api/ratings", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ratingService.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRating_NonNumericRating(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	body := `{"album_id": "album-1", "rating": "five"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ratings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRating_NonFiniteRating(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	// strconv parses these spellings without error, so they must be
	// rejected explicitly before reaching storage.
	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		body := `{"album_id": "album-1", "rating": "` + raw + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/ratings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	ratingService.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRating_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"out of range", service.ErrInvalidRating, http.StatusBadRequest},
		{"album not found", service.ErrAlbumNotFound, http.StatusNotFound},
		{"catalog down", service.ErrUpstream, http.StatusBadGateway},
		{"storage failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratingService := new(MockRatingService)
			h := NewRatingHandler(ratingService)
			r := newTestRouter(h.RegisterRoutes)

			ratingService.On("Rate", mock.Anything, testUserID, "album-1", 4.0, (*bool)(nil)).
				Return(nil, tt.serviceErr)

			body := `{"album_id": "album-1", "rating": "4.0"}`
			req := httptest.NewRequest(http.MethodPost, "/api/ratings", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestUpdateRating_Success(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	ratingService.On("Update", mock.Anything, testUserID, "rating-1", 2.5, (*bool)(nil)).
		Return(&models.Rating{ID: "rating-1", UserID: testUserID, AlbumID: "album-1", Rating: 2.5, Listened: true}, nil)

	body := `{"rating": "2.5"}`
	req := httptest.NewRequest(http.MethodPut, "/api/ratings/rating-1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RatingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2.5", resp.Rating)
}

func TestUpdateRating_NotFound(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	ratingService.On("Update", mock.Anything, testUserID, "nope", 2.5, (*bool)(nil)).
		Return(nil, service.ErrRatingNotFound)

	body := `{"rating": "2.5"}`
	req := httptest.NewRequest(http.MethodPut, "/api/ratings/nope", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRating_Success(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	ratingService.On("Remove", mock.Anything, testUserID, "rating-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/ratings/rating-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())
}

func TestListRatings_ReturnsAlbums(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	ratingService.On("ListForUser", mock.Anything, testUserID).Return([]models.Rating{
		{
			ID:       "r1",
			UserID:   testUserID,
			AlbumID:  "a1",
			Rating:   5.0,
			Listened: true,
			Album:    models.Album{ID: "a1", Name: "OK Computer", Artist: "Radiohead"},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ratings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []dto.RatingWithAlbumResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "5.0", resp[0].Rating)
	assert.Equal(t, "OK Computer", resp[0].Album.Name)
}

func TestListRatings_EmptyHistory(t *testing.T) {
	ratingService := new(MockRatingService)
	h := NewRatingHandler(ratingService)
	r := newTestRouter(h.RegisterRoutes)

	ratingService.On("ListForUser", mock.Anything, testUserID).Return([]models.Rating{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ratings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
