package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"go-bookstore/internal/models"
)

var titleCaser = cases.Title(language.English)

type BookService struct {
	db *gorm.DB
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db}
}

func (s *BookService) Create(ctx context.Context, req models.CreateBookRequest) (*models.Book, error) {
	if req.BookPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if req.Supply < 0 {
		return nil, ErrInvalidSupply
	}

	book := models.Book{
		BookName:        titleCaser.String(req.BookName),
		BookAuthor:      req.BookAuthor,
		BookDescription: req.BookDescription,
		BookPrice:       req.BookPrice,
		Supply:          req.Supply,
	}

	db := s.db.WithContext(ctx)
	var existing models.Book
	err := db.First(&existing, "book_name = ?", book.BookName).Error
	if err == nil {
		return nil, ErrBookAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("create book: %w", err)
	}

	if err := db.Create(&book).Error; err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return &book, nil
}

type ListBooksOptions struct {
	Skip   int
	Limit  int
	SortBy string
	Order  string
	Genres []string
}

var bookSortColumns = map[string]bool{
	"book_id":    true,
	"book_name":  true,
	"book_price": true,
	"supply":     true,
	"created_at": true,
}

// List returns a page of books with genres preloaded, optionally
// filtered by genre names.
func (s *BookService) List(ctx context.Context, opts ListBooksOptions) ([]models.Book, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	if !bookSortColumns[opts.SortBy] {
		opts.SortBy = "book_id"
	}
	dir := "asc"
	if opts.Order == "desc" {
		dir = "desc"
	}

	query := s.db.WithContext(ctx).Model(&models.Book{})
	if len(opts.Genres) > 0 {
		query = query.
			Joins("JOIN book_genres ON book_genres.book_id = books.book_id").
			Joins("JOIN genres ON genres.genre_id = book_genres.genre_id").
			Where("genres.genre_name IN ?", opts.Genres).
			Distinct("books.*")
	}

	var books []models.Book
	err := query.
		Preload("Genres").
		Order("books." + opts.SortBy + " " + dir).
		Offset(opts.Skip).
		Limit(opts.Limit).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *BookService) Get(ctx context.Context, bookID uint) (*models.Book, error) {
	var book models.Book
	err := s.db.WithContext(ctx).Preload("Genres").First(&book, "book_id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &BookNotFoundError{BookID: bookID}
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// Update merges the provided fields into the book, field by field,
// validating the same invariants as creation.
func (s *BookService) Update(ctx context.Context, bookID uint, req models.UpdateBookRequest) (*models.Book, error) {
	db := s.db.WithContext(ctx)

	var book models.Book
	err := db.First(&book, "book_id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &BookNotFoundError{BookID: bookID}
	}
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	if req.BookPrice != nil && req.BookPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if req.Supply != nil && *req.Supply < 0 {
		return nil, ErrInvalidSupply
	}

	// Write only the merged columns. Saving the whole row would
	// resurrect stale supply over a stock debit committed since the
	// read above.
	changes := map[string]any{}
	if req.BookName != nil {
		book.BookName = titleCaser.String(*req.BookName)
		changes["book_name"] = book.BookName
	}
	if req.BookAuthor != nil {
		book.BookAuthor = *req.BookAuthor
		changes["book_author"] = book.BookAuthor
	}
	if req.BookDescription != nil {
		book.BookDescription = *req.BookDescription
		changes["book_description"] = book.BookDescription
	}
	if req.BookPrice != nil {
		book.BookPrice = *req.BookPrice
		changes["book_price"] = book.BookPrice
	}
	if req.Supply != nil {
		book.Supply = *req.Supply
		changes["supply"] = book.Supply
	}
	if len(changes) == 0 {
		return &book, nil
	}

	if err := db.Model(&book).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &book, nil
}

func (s *BookService) Delete(ctx context.Context, bookID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		err := tx.First(&book, "book_id = ?", bookID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BookNotFoundError{BookID: bookID}
		}
		if err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&models.BookGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
}

func (s *BookService) AddGenre(ctx context.Context, bookID, genreID uint) error {
	db := s.db.WithContext(ctx)

	var genre models.Genre
	if err := db.First(&genre, "genre_id = ?", genreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return fmt.Errorf("add genre: %w", err)
	}
	var book models.Book
	if err := db.First(&book, "book_id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BookNotFoundError{BookID: bookID}
		}
		return fmt.Errorf("add genre: %w", err)
	}

	var existing models.BookGenre
	err := db.First(&existing, "book_id = ? AND genre_id = ?", bookID, genreID).Error
	if err == nil {
		return ErrGenreAlreadyAssociated
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("add genre: %w", err)
	}

	return db.Create(&models.BookGenre{BookID: bookID, GenreID: genreID}).Error
}

func (s *BookService) RemoveGenre(ctx context.Context, bookID, genreID uint) error {
	res := s.db.WithContext(ctx).
		Where("book_id = ? AND genre_id = ?", bookID, genreID).
		Delete(&models.BookGenre{})
	if res.Error != nil {
		return fmt.Errorf("remove genre: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrGenreNotAssociated
	}
	return nil
}

func (s *BookService) Genres(ctx context.Context, bookID uint) ([]models.Genre, error) {
	var genres []models.Genre
	err := s.db.WithContext(ctx).
		Joins("JOIN book_genres ON book_genres.genre_id = genres.genre_id").
		Where("book_genres.book_id = ?", bookID).
		Find(&genres).Error
	if err != nil {
		return nil, fmt.Errorf("book genres: %w", err)
	}
	return genres, nil
}

// DebitStock atomically decrements a book's supply. The guarded update
// means a concurrent debit cannot drive supply negative: whichever
// transaction loses the race sees zero rows affected.
func (s *BookService) DebitStock(ctx context.Context, bookID uint, amount int) error {
	if amount < 1 {
		return ErrInvalidQuantity
	}
	return debitStock(s.db.WithContext(ctx), bookID, amount)
}

// CreditStock adjusts supply by amount, which may be negative for
// admin corrections. The result must not go below zero.
func (s *BookService) CreditStock(ctx context.Context, bookID uint, amount int) error {
	db := s.db.WithContext(ctx)

	res := db.Model(&models.Book{}).
		Where("book_id = ? AND supply + ? >= 0", bookID, amount).
		UpdateColumn("supply", gorm.Expr("supply + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("credit stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var book models.Book
		err := db.First(&book, "book_id = ?", bookID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BookNotFoundError{BookID: bookID}
		}
		if err != nil {
			return fmt.Errorf("credit stock: %w", err)
		}
		return ErrInvalidSupply
	}
	return nil
}

// debitStock runs the guarded decrement on the given handle so the
// order engine can reuse it inside its own transaction.
func debitStock(db *gorm.DB, bookID uint, amount int) error {
	res := db.Model(&models.Book{}).
		Where("book_id = ? AND supply >= ?", bookID, amount).
		UpdateColumn("supply", gorm.Expr("supply - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("debit stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var book models.Book
		err := db.First(&book, "book_id = ?", bookID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BookNotFoundError{BookID: bookID}
		}
		if err != nil {
			return fmt.Errorf("debit stock: %w", err)
		}
		return &InsufficientSupplyError{
			BookID:    book.BookID,
			BookName:  book.BookName,
			Requested: amount,
			Available: book.Supply,
		}
	}
	return nil
}
