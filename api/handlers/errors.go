package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-bookstore/internal/services"
)

// writeError maps the service error taxonomy onto HTTP statuses.
// Persistence failures stay opaque: the caller sees a generic 500.
func writeError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": errorMessage(err)})
}

func errorStatus(err error) int {
	var notFound *services.BookNotFoundError
	var short *services.InsufficientSupplyError
	var incomplete *services.UserDataIncompleteError

	switch {
	case errors.As(err, &notFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGenreNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrNotInWishlist):
		return http.StatusNotFound

	case errors.As(err, &short),
		errors.Is(err, services.ErrAlreadyInWishlist),
		errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrEmailAlreadyExists),
		errors.Is(err, services.ErrBookAlreadyExists),
		errors.Is(err, services.ErrGenreAlreadyExists),
		errors.Is(err, services.ErrGenreAlreadyAssociated),
		errors.Is(err, services.ErrGenreNotAssociated):
		return http.StatusConflict

	case errors.As(err, &incomplete),
		errors.Is(err, services.ErrBasketEmpty),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidSupply):
		return http.StatusBadRequest

	case errors.Is(err, services.ErrWrongCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, services.ErrUserDisabled),
		errors.Is(err, services.ErrUserNotVerified):
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if errorStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
