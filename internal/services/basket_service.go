package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-bookstore/internal/models"
)

type BasketService struct {
	db *gorm.DB
}

func NewBasketService(db *gorm.DB) *BasketService {
	return &BasketService{db: db}
}

// Add upserts a basket row: an existing (user, book) row gets its
// quantity incremented, otherwise a new row is created with qty.
func (s *BasketService) Add(ctx context.Context, userID, bookID uint, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	var book models.Book
	if err := s.db.WithContext(ctx).First(&book, "book_id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BookNotFoundError{BookID: bookID}
		}
		return fmt.Errorf("add to basket: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.BasketItem
		err := tx.First(&item, "user_id = ? AND book_id = ?", userID, bookID).Error
		switch {
		case err == nil:
			return tx.Model(&models.BasketItem{}).
				Where("user_id = ? AND book_id = ?", userID, bookID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Omit("Book").Create(&models.BasketItem{UserID: userID, BookID: bookID, Quantity: qty}).Error
		default:
			return err
		}
	})
}

// Get returns the user's basket rows with their books joined.
func (s *BasketService) Get(ctx context.Context, userID uint) ([]models.BasketItem, error) {
	var items []models.BasketItem
	err := s.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("get basket: %w", err)
	}
	return items, nil
}

// UpdateQuantity overwrites the quantity of an existing row. The row is
// left unchanged when newQty is invalid.
func (s *BasketService) UpdateQuantity(ctx context.Context, userID, bookID uint, newQty int) error {
	var item models.BasketItem
	err := s.db.WithContext(ctx).First(&item, "user_id = ? AND book_id = ?", userID, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("update basket: %w", err)
	}
	if newQty < 1 {
		return ErrInvalidQuantity
	}

	return s.db.WithContext(ctx).Model(&models.BasketItem{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		UpdateColumn("quantity", newQty).Error
}

func (s *BasketService) Remove(ctx context.Context, userID, bookID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.BasketItem{})
	if res.Error != nil {
		return fmt.Errorf("remove from basket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Clear deletes every row for the user. Idempotent: succeeds even when
// the basket is already empty.
func (s *BasketService) Clear(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.BasketItem{}).Error
}
