package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

type BasketHandler struct {
	basketService *services.BasketService
}

func NewBasketHandler(basketService *services.BasketService) *BasketHandler {
	return &BasketHandler{basketService: basketService}
}

// GET /api/users/me/basket
func (h *BasketHandler) GetBasket(c *gin.Context) {
	items, err := h.basketService.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// POST /api/users/me/basket
func (h *BasketHandler) AddToBasket(c *gin.Context) {
	var req models.AddToBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.basketService.Add(c.Request.Context(), currentUserID(c), req.BookID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book added to basket."})
}

// PATCH /api/users/me/basket/:book_id
func (h *BasketHandler) UpdateBasketItem(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	var req models.UpdateBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.basketService.UpdateQuantity(c.Request.Context(), currentUserID(c), bookID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Basket item updated.", "quantity": req.Quantity})
}

// DELETE /api/users/me/basket/:book_id
func (h *BasketHandler) RemoveFromBasket(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	if err := h.basketService.Remove(c.Request.Context(), currentUserID(c), bookID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book removed from basket."})
}

// DELETE /api/users/me/basket
func (h *BasketHandler) ClearBasket(c *gin.Context) {
	if err := h.basketService.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Basket cleared."})
}
