package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	DeliveryCourier      = "courier"
	DeliveryPickup       = "pickup"
	DeliveryParcelLocker = "parcel_locker"
)

// Order is immutable after creation except for Status, which an
// administrator may overwrite. TotalCost is captured once at creation
// and never recomputed, so later book price changes do not alter
// historical orders.
type Order struct {
	OrderID        uint            `gorm:"primaryKey;autoIncrement" json:"order_id"`
	UserID         uint            `gorm:"not null;index" json:"user_id"`
	DeliveryMethod string          `gorm:"not null" json:"delivery_method"`
	Status         string          `gorm:"not null;default:pending" json:"status"`
	TotalCost      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_cost"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	OrderID  uint `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	BookID   uint `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	Quantity int  `gorm:"not null" json:"quantity"`

	Book Book `gorm:"foreignKey:BookID;references:BookID" json:"book"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed cancelled"`
}

// ValidDeliveryMethod reports whether m is one of the three accepted
// delivery literals.
func ValidDeliveryMethod(m string) bool {
	switch m {
	case DeliveryCourier, DeliveryPickup, DeliveryParcelLocker:
		return true
	}
	return false
}
