package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	BookID          uint            `gorm:"primaryKey;autoIncrement" json:"book_id"`
	BookName        string          `gorm:"uniqueIndex;not null" json:"book_name"`
	BookAuthor      string          `gorm:"not null" json:"book_author"`
	BookDescription string          `gorm:"not null" json:"book_description"`
	BookPrice       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"book_price"`
	Supply          int             `gorm:"not null;default:0;check:chk_supply_non_negative,supply >= 0" json:"supply"`
	BookCoverPath   string          `json:"book_cover_path"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Genres []Genre `gorm:"many2many:book_genres;foreignKey:BookID;joinForeignKey:BookID;references:GenreID;joinReferences:GenreID" json:"genres,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

type CreateBookRequest struct {
	BookName        string          `json:"book_name" binding:"required,min=3,max=70"`
	BookAuthor      string          `json:"book_author" binding:"required"`
	BookDescription string          `json:"book_description" binding:"required,min=100,max=500"`
	BookPrice       decimal.Decimal `json:"book_price" binding:"required"`
	Supply          int             `json:"supply" binding:"gte=0"`
}

// UpdateBookRequest carries a partial update; nil fields are left untouched.
type UpdateBookRequest struct {
	BookName        *string          `json:"book_name" binding:"omitempty,min=3,max=70"`
	BookAuthor      *string          `json:"book_author"`
	BookDescription *string          `json:"book_description" binding:"omitempty,min=100,max=500"`
	BookPrice       *decimal.Decimal `json:"book_price"`
	Supply          *int             `json:"supply"`
}

type AdjustSupplyRequest struct {
	Amount int `json:"amount" binding:"required"`
}
