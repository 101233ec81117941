package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

type GenreHandler struct {
	genreService *services.GenreService
}

func NewGenreHandler(genreService *services.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// GET /api/genres
func (h *GenreHandler) ListGenres(c *gin.Context) {
	genres, err := h.genreService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": genres})
}

// POST /api/admin/genres
func (h *GenreHandler) CreateGenre(c *gin.Context) {
	var req models.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Create(c.Request.Context(), req.GenreName)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": genre})
}

// DELETE /api/admin/genres/:id
func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	genreID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.genreService.Delete(c.Request.Context(), genreID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Genre deleted."})
}
