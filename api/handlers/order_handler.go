package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /api/users/me/orders?delivery_method=courier
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	deliveryMethod := c.Query("delivery_method")
	if !models.ValidDeliveryMethod(deliveryMethod) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "delivery_method must be 'courier', 'pickup' or 'parcel_locker'",
		})
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), currentUserID(c), deliveryMethod)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Order created successfully",
		"order_id":   order.OrderID,
		"total_cost": order.TotalCost,
		"status":     order.Status,
		"created_at": order.CreatedAt,
	})
}

// GET /api/users/me/orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	orders, err := h.orderService.GetUserOrders(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// GET /api/admin/users/:id/orders
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	orders, err := h.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// PATCH /api/admin/orders/:id
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.SetStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": order.OrderID, "status": order.Status})
}
