package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-bookstore/internal/models"
)

type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

func (s *WishlistService) Add(ctx context.Context, userID, bookID uint) error {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("add to wishlist: %w", err)
	}
	var book models.Book
	if err := db.First(&book, "book_id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BookNotFoundError{BookID: bookID}
		}
		return fmt.Errorf("add to wishlist: %w", err)
	}

	var existing models.WishlistEntry
	err := db.First(&existing, "user_id = ? AND book_id = ?", userID, bookID).Error
	if err == nil {
		return ErrAlreadyInWishlist
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("add to wishlist: %w", err)
	}

	return db.Create(&models.WishlistEntry{UserID: userID, BookID: bookID}).Error
}

func (s *WishlistService) Remove(ctx context.Context, userID, bookID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.WishlistEntry{})
	if res.Error != nil {
		return fmt.Errorf("remove from wishlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotInWishlist
	}
	return nil
}

// Clear removes every wishlist entry for the user. Idempotent.
func (s *WishlistService) Clear(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.WishlistEntry{}).Error
}

// List returns the wished books joined through the association table.
func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.Book, error) {
	var books []models.Book
	err := s.db.WithContext(ctx).
		Joins("JOIN user_books ON user_books.book_id = books.book_id").
		Where("user_books.user_id = ?", userID).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return books, nil
}
