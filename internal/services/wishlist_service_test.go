package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

func TestWishlistAdd(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewWishlistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "reader")
	book := seedBook(t, db, "Book", "10", 10)

	require.NoError(t, svc.Add(ctx, user.UserID, book.BookID))

	books, err := svc.List(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Book", books[0].BookName)
}

// A repeated add fails and the store still contains exactly one entry.
func TestWishlistAddDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewWishlistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "reader")
	book := seedBook(t, db, "Book", "10", 10)

	require.NoError(t, svc.Add(ctx, user.UserID, book.BookID))
	err := svc.Add(ctx, user.UserID, book.BookID)
	require.ErrorIs(t, err, services.ErrAlreadyInWishlist)

	assert.Equal(t, 1, countRows(t, db, &models.WishlistEntry{}))
}

func TestWishlistAddUnknownEntities(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewWishlistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "reader")
	book := seedBook(t, db, "Book", "10", 10)

	err := svc.Add(ctx, 9999, book.BookID)
	require.ErrorIs(t, err, services.ErrUserNotFound)

	err = svc.Add(ctx, user.UserID, 4242)
	var notFound *services.BookNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestWishlistRemove(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewWishlistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "reader")
	book := seedBook(t, db, "Book", "10", 10)
	require.NoError(t, svc.Add(ctx, user.UserID, book.BookID))

	require.NoError(t, svc.Remove(ctx, user.UserID, book.BookID))

	err := svc.Remove(ctx, user.UserID, book.BookID)
	require.ErrorIs(t, err, services.ErrNotInWishlist)
}

func TestWishlistClearIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewWishlistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "reader")
	bookA := seedBook(t, db, "Book A", "10", 10)
	bookB := seedBook(t, db, "Book B", "5", 10)
	require.NoError(t, svc.Add(ctx, user.UserID, bookA.BookID))
	require.NoError(t, svc.Add(ctx, user.UserID, bookB.BookID))

	require.NoError(t, svc.Clear(ctx, user.UserID))

	books, err := svc.List(ctx, user.UserID)
	require.NoError(t, err)
	assert.Empty(t, books)

	require.NoError(t, svc.Clear(ctx, user.UserID))
}
