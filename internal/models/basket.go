package models

// BasketItem is one row of a user's pending selection. A row never
// persists at quantity 0: it is deleted on removal or when the whole
// basket is cleared after an order.
type BasketItem struct {
	UserID   uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BookID   uint `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	Quantity int  `gorm:"not null;default:1" json:"quantity"`

	Book Book `gorm:"foreignKey:BookID;references:BookID" json:"book"`
}

func (BasketItem) TableName() string {
	return "baskets"
}

type AddToBasketRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"omitempty,gte=1"`
}

type UpdateBasketRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}
