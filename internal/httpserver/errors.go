package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qkart/internal/domain"
	authsvc "qkart/internal/service/auth"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var errorTable = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrNoCart, http.StatusBadRequest, "User does not have a cart. Use POST to create cart and add a product"},
	{domain.ErrInvalidProduct, http.StatusBadRequest, "Product doesn't exist in database"},
	{domain.ErrDuplicateItem, http.StatusBadRequest, "Product already in cart. Use the cart sidebar to update or remove product from cart"},
	{domain.ErrItemNotInCart, http.StatusBadRequest, "Product not in cart"},
	{domain.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
	{domain.ErrAddressNotSet, http.StatusBadRequest, "Address not set"},
	{domain.ErrInsufficientBalance, http.StatusBadRequest, "Wallet balance not sufficient to place order"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "Quantity must be between 1 and 2147483647"},
	{domain.ErrTotalOverflow, http.StatusBadRequest, "Cart total exceeds the supported amount"},
	{domain.ErrConflict, http.StatusConflict, "Cart was modified concurrently, retry"},
	{authsvc.ErrEmailTaken, http.StatusBadRequest, "Email already taken"},
	{authsvc.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
	{authsvc.ErrInvalidToken, http.StatusUnauthorized, "Please authenticate"},
}

// writeError maps err to the API error body. notFound is the message used
// for domain.ErrNotFound, which differs per resource.
func writeError(c *gin.Context, err error, notFound string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWith(c, http.StatusBadRequest, verr.Msg)
		return
	case errors.Is(err, domain.ErrNotFound):
		abortWith(c, http.StatusNotFound, notFound)
		return
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			abortWith(c, e.status, e.message)
			return
		}
	}
	// gin's logger prints errors attached to the context.
	_ = c.Error(err)
	abortWith(c, http.StatusInternalServerError, "Internal server error")
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, apiError{Code: status, Message: message})
}

func bindError(c *gin.Context, err error) {
	abortWith(c, http.StatusBadRequest, err.Error())
}
