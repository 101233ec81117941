package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

type BookHandler struct {
	bookService *services.BookService
}

func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// GET /api/books
func (h *BookHandler) ListBooks(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	opts := services.ListBooksOptions{
		Skip:   skip,
		Limit:  limit,
		SortBy: c.DefaultQuery("sort_by", "book_id"),
		Order:  c.DefaultQuery("order", "asc"),
	}
	if genres := c.Query("genres"); genres != "" {
		opts.Genres = strings.Split(genres, ",")
	}

	books, err := h.bookService.List(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}

// GET /api/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	book, err := h.bookService.Get(c.Request.Context(), bookID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": book})
}

// GET /api/books/:id/genres
func (h *BookHandler) GetBookGenres(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	genres, err := h.bookService.Genres(c.Request.Context(), bookID)
	if err != nil {
		writeError(c, err)
		return
	}

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.GenreName)
	}
	c.JSON(http.StatusOK, gin.H{"data": names})
}

// POST /api/admin/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req models.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": book})
}

// PATCH /api/admin/books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.bookService.Update(c.Request.Context(), bookID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": book})
}

// DELETE /api/admin/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), bookID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted."})
}

// POST /api/admin/books/:id/genres/:genre_id
func (h *BookHandler) AddBookGenre(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}
	genreID, ok := paramID(c, "genre_id")
	if !ok {
		return
	}

	if err := h.bookService.AddGenre(c.Request.Context(), bookID, genreID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Genre added to book."})
}

// DELETE /api/admin/books/:id/genres/:genre_id
func (h *BookHandler) RemoveBookGenre(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}
	genreID, ok := paramID(c, "genre_id")
	if !ok {
		return
	}

	if err := h.bookService.RemoveGenre(c.Request.Context(), bookID, genreID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Genre removed from book."})
}

// POST /api/admin/books/:id/supply
// Positive amounts restock, negative amounts correct overcounts.
func (h *BookHandler) AdjustSupply(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.AdjustSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bookService.CreditStock(c.Request.Context(), bookID, req.Amount); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supply adjusted."})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
