package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vinalysis/internal/httpapi/dto"
	"vinalysis/internal/httpapi/service"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// RegisterRoutes registers rating-related routes (authenticated)
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	ratings := router.Group("/ratings")
	{
		ratings.POST("", h.CreateOrUpdate) // Rate an album (create or update)
		ratings.PUT("/:id", h.Update)      // Edit an existing rating by id
		ratings.DELETE("/:id", h.Delete)   // Remove a rating
		ratings.GET("", h.List)            // List the caller's ratings with albums
	}
}

// CreateOrUpdate rates an album for the current user, resolving the album
// through the catalog when it is not cached yet
// POST /api/ratings
func (h *RatingHandler) CreateOrUpdate(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	value, err := dto.ParseRating(req.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be a decimal number"})
		return
	}

	rating, err := h.ratingService.Rate(c.Request.Context(), userID.(string), req.AlbumID, value, req.Listened)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating), errors.Is(err, service.ErrInvalidAlbumID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlbumNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
		case errors.Is(err, service.ErrUpstream):
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog lookup failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save rating"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToRatingResponse(rating))
}

// Update edits the rating value and listened flag of an existing rating
// PUT /api/ratings/:id
func (h *RatingHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	value, err := dto.ParseRating(req.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be a decimal number"})
		return
	}

	rating, err := h.ratingService.Update(c.Request.Context(), userID.(string), c.Param("id"), value, req.Listened)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRatingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "rating not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rating"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToRatingResponse(rating))
}

// Delete removes a rating. Removal is idempotent: deleting an id that no
// longer exists still succeeds.
// DELETE /api/ratings/:id
func (h *RatingHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.ratingService.Remove(c.Request.Context(), userID.(string), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// List returns the caller's ratings with album metadata, best rating first
// GET /api/ratings
func (h *RatingHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ratings, err := h.ratingService.ListForUser(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ratings"})
		return
	}

	responses := make([]dto.RatingWithAlbumResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, *dto.FromModelToRatingWithAlbum(&ratings[i]))
	}

	c.JSON(http.StatusOK, responses)
}
