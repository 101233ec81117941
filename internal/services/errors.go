package services

import (
	"errors"
	"fmt"
)

// Every rejection names the offending entity without leaking store
// structure. Validation, not-found and conflict errors are returned
// before any mutation; persistence failures roll back in full and are
// surfaced wrapped.

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailAlreadyExists = errors.New("email is already registered")
	ErrWrongCredentials   = errors.New("wrong credentials")
	ErrUserNotVerified    = errors.New("user is not verified")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrBookAlreadyExists = errors.New("book already exists")

	ErrGenreNotFound          = errors.New("genre not found")
	ErrGenreAlreadyExists     = errors.New("genre already exists")
	ErrGenreAlreadyAssociated = errors.New("genre already associated with this book")
	ErrGenreNotAssociated     = errors.New("genre not associated with this book")

	ErrBasketEmpty     = errors.New("basket is empty")
	ErrItemNotFound    = errors.New("book not found in basket")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	ErrAlreadyInWishlist = errors.New("book already in wishlist")
	ErrNotInWishlist     = errors.New("book not in wishlist")

	ErrOrderNotFound = errors.New("order not found")

	ErrInvalidPrice  = errors.New("price must not be negative")
	ErrInvalidSupply = errors.New("supply must not be negative")
)

// BookNotFoundError names the missing book.
type BookNotFoundError struct {
	BookID uint
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book %d not found", e.BookID)
}

// InsufficientSupplyError names the under-stocked book. A multi-line
// order fails in full with this error even when other lines had
// sufficient supply.
type InsufficientSupplyError struct {
	BookID    uint
	BookName  string
	Requested int
	Available int
}

func (e *InsufficientSupplyError) Error() string {
	return fmt.Sprintf("insufficient supply for book %q: requested %d, available %d",
		e.BookName, e.Requested, e.Available)
}

// UserDataIncompleteError names the first missing delivery contact
// field blocking order placement.
type UserDataIncompleteError struct {
	Field string
}

func (e *UserDataIncompleteError) Error() string {
	return fmt.Sprintf("delivery data incomplete: %s is required", e.Field)
}
