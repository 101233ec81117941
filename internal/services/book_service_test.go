package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

func TestBookCreate(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)
	ctx := context.Background()

	book, err := svc.Create(ctx, models.CreateBookRequest{
		BookName:        "the great gatsby",
		BookAuthor:      "F. Scott Fitzgerald",
		BookDescription: strings.Repeat("a classic ", 12),
		BookPrice:       decimal.NewFromInt(15),
		Supply:          5,
	})
	require.NoError(t, err)
	assert.Equal(t, "The Great Gatsby", book.BookName)

	_, err = svc.Create(ctx, models.CreateBookRequest{
		BookName:        "The Great Gatsby",
		BookAuthor:      "Someone Else",
		BookDescription: strings.Repeat("a knock-off ", 10),
		BookPrice:       decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, services.ErrBookAlreadyExists)
}

func TestBookCreateNegativePrice(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)

	_, err := svc.Create(context.Background(), models.CreateBookRequest{
		BookName:        "Bad Price",
		BookAuthor:      "A",
		BookDescription: "d",
		BookPrice:       decimal.NewFromInt(-1),
	})
	require.ErrorIs(t, err, services.ErrInvalidPrice)
}

func TestBookUpdateMergesFields(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Original", "10", 5)

	author := "New Author"
	updated, err := svc.Update(ctx, book.BookID, models.UpdateBookRequest{
		BookAuthor: &author,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Author", updated.BookAuthor)
	assert.Equal(t, "Original", updated.BookName)
	assert.Equal(t, 5, updated.Supply)
	assert.True(t, updated.BookPrice.Equal(decimal.NewFromInt(10)))
}

// A field edit writes only the merged columns. A stock debit committed
// between the edit's read and its write must survive; writing the whole
// row back would resurrect the already-sold supply.
func TestBookUpdateKeepsConcurrentDebit(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Book", "10", 10)

	debited := false
	err := db.Callback().Query().After("gorm:query").Register("debit_after_read", func(tx *gorm.DB) {
		if debited || tx.Statement.Table != "books" {
			return
		}
		debited = true
		require.NoError(t, db.Model(&models.Book{}).
			Where("book_id = ?", book.BookID).
			UpdateColumn("supply", gorm.Expr("supply - ?", 3)).Error)
	})
	require.NoError(t, err)

	author := "New Author"
	updated, err := svc.Update(ctx, book.BookID, models.UpdateBookRequest{BookAuthor: &author})
	require.NoError(t, err)
	assert.Equal(t, "New Author", updated.BookAuthor)

	assert.True(t, debited)
	assert.Equal(t, 7, bookSupply(t, db, book.BookID))
}

// An update is validated against the same invariants as creation.
func TestBookUpdateRejectsInvalidValues(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Book", "10", 5)

	badPrice := decimal.NewFromInt(-3)
	_, err := svc.Update(ctx, book.BookID, models.UpdateBookRequest{BookPrice: &badPrice})
	require.ErrorIs(t, err, services.ErrInvalidPrice)

	badSupply := -1
	_, err = svc.Update(ctx, book.BookID, models.UpdateBookRequest{Supply: &badSupply})
	require.ErrorIs(t, err, services.ErrInvalidSupply)

	unchanged, err := svc.Get(ctx, book.BookID)
	require.NoError(t, err)
	assert.Equal(t, 5, unchanged.Supply)
	assert.True(t, unchanged.BookPrice.Equal(decimal.NewFromInt(10)))
}

func TestDebitStock(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Book", "10", 5)

	require.NoError(t, svc.DebitStock(ctx, book.BookID, 3))
	assert.Equal(t, 2, bookSupply(t, db, book.BookID))

	err := svc.DebitStock(ctx, book.BookID, 3)
	var short *services.InsufficientSupplyError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 3, short.Requested)
	assert.Equal(t, 2, short.Available)
	assert.Equal(t, 2, bookSupply(t, db, book.BookID))
}

func TestCreditStock(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Book", "10", 5)

	require.NoError(t, svc.CreditStock(ctx, book.BookID, 10))
	assert.Equal(t, 15, bookSupply(t, db, book.BookID))

	// Negative adjustments are allowed down to zero, never below.
	require.NoError(t, svc.CreditStock(ctx, book.BookID, -15))
	assert.Equal(t, 0, bookSupply(t, db, book.BookID))

	err := svc.CreditStock(ctx, book.BookID, -1)
	require.ErrorIs(t, err, services.ErrInvalidSupply)

	err = svc.CreditStock(ctx, 4242, 1)
	var notFound *services.BookNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestBookGenreAssociation(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)
	genres := services.NewGenreService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Book", "10", 5)
	genre, err := genres.Create(ctx, "Fantasy")
	require.NoError(t, err)

	require.NoError(t, svc.AddGenre(ctx, book.BookID, genre.GenreID))

	err = svc.AddGenre(ctx, book.BookID, genre.GenreID)
	require.ErrorIs(t, err, services.ErrGenreAlreadyAssociated)

	names, err := svc.Genres(ctx, book.BookID)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "Fantasy", names[0].GenreName)

	require.NoError(t, svc.RemoveGenre(ctx, book.BookID, genre.GenreID))
	err = svc.RemoveGenre(ctx, book.BookID, genre.GenreID)
	require.ErrorIs(t, err, services.ErrGenreNotAssociated)
}

func TestBookListFilterAndSort(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewBookService(db)
	genres := services.NewGenreService(db)
	ctx := context.Background()

	cheap := seedBook(t, db, "Cheap", "5", 5)
	pricey := seedBook(t, db, "Pricey", "50", 5)
	seedBook(t, db, "Other", "20", 5)

	fantasy, err := genres.Create(ctx, "Fantasy")
	require.NoError(t, err)
	require.NoError(t, svc.AddGenre(ctx, cheap.BookID, fantasy.GenreID))
	require.NoError(t, svc.AddGenre(ctx, pricey.BookID, fantasy.GenreID))

	books, err := svc.List(ctx, services.ListBooksOptions{
		SortBy: "book_price",
		Order:  "desc",
		Genres: []string{"Fantasy"},
	})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Pricey", books[0].BookName)
	assert.Equal(t, "Cheap", books[1].BookName)
}
