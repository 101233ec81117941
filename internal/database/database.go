package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-bookstore/internal/models"
)

// DefaultGenres is the catalog bootstrap set.
var DefaultGenres = []string{
	"Fiction",
	"Non-fiction",
	"Mystery",
	"Fantasy",
	"Science Fiction",
	"Romance",
	"Historical Fiction",
	"Biography",
	"Horror",
	"Young Adult",
	"Children’s Literature",
	"Self-Help",
	"Graphic Novels",
	"Poetry",
	"Classics",
	"Adventure",
	"Literary Fiction",
	"Religion",
	"Science",
	"Travel",
}

func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Genre{},
		&models.Book{},
		&models.BookGenre{},
		&models.BasketItem{},
		&models.WishlistEntry{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// SeedGenres inserts the default genre set, skipping names that
// already exist.
func SeedGenres(db *gorm.DB) error {
	for _, name := range DefaultGenres {
		genre := models.Genre{GenreName: name}
		if err := db.Where("genre_name = ?", name).FirstOrCreate(&genre).Error; err != nil {
			return fmt.Errorf("seed genres: %w", err)
		}
	}
	return nil
}
