package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-bookstore/internal/models"
)

type GenreService struct {
	db *gorm.DB
}

func NewGenreService(db *gorm.DB) *GenreService {
	return &GenreService{db: db}
}

func (s *GenreService) Create(ctx context.Context, name string) (*models.Genre, error) {
	db := s.db.WithContext(ctx)

	var existing models.Genre
	err := db.First(&existing, "genre_name = ?", name).Error
	if err == nil {
		return nil, ErrGenreAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("create genre: %w", err)
	}

	genre := models.Genre{GenreName: name}
	if err := db.Create(&genre).Error; err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return &genre, nil
}

func (s *GenreService) List(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := s.db.WithContext(ctx).Order("genre_name asc").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

func (s *GenreService) Delete(ctx context.Context, genreID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genre models.Genre
		err := tx.First(&genre, "genre_id = ?", genreID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("genre_id = ?", genreID).Delete(&models.BookGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(&genre).Error
	})
}
