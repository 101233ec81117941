package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-bookstore/internal/services"
)

type WishlistHandler struct {
	wishlistService *services.WishlistService
}

func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// GET /api/users/me/wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	books, err := h.wishlistService.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}

// POST /api/users/me/wishlist/:book_id
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	if err := h.wishlistService.Add(c.Request.Context(), currentUserID(c), bookID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book added to wishlist."})
}

// DELETE /api/users/me/wishlist/:book_id
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), currentUserID(c), bookID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book removed from wishlist."})
}

// DELETE /api/users/me/wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	if err := h.wishlistService.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All books removed from wishlist."})
}
