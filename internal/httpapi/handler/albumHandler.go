package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vinalysis/internal/httpapi/service"
)

type AlbumHandler struct {
	albumService service.AlbumService
}

func NewAlbumHandler(albumService service.AlbumService) *AlbumHandler {
	return &AlbumHandler{
		albumService: albumService,
	}
}

// RegisterRoutes registers album-related routes (authenticated)
func (h *AlbumHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/search", h.Search)
	router.GET("/albums/:id", h.GetByID)
}

// Search proxies a catalog search, enriched with the caller's ratings
// GET /api/search?q=...&limit=20
func (h *AlbumHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	albums, err := h.albumService.Search(c.Request.Context(), userID.(string), query, limit)
	if err != nil {
		if errors.Is(err, service.ErrUpstream) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog search failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, albums)
}

// GetByID resolves an album (fetching it from the catalog on cache miss)
// and returns it with the caller's rating
// GET /api/albums/:id
func (h *AlbumHandler) GetByID(c *gin.Context) {
	albumID := c.Param("id")

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	album, err := h.albumService.GetWithUserRating(c.Request.Context(), userID.(string), albumID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAlbumID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid album id"})
		case errors.Is(err, service.ErrAlbumNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
		case errors.Is(err, service.ErrUpstream):
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog lookup failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch album"})
		}
		return
	}

	c.JSON(http.StatusOK, album)
}
