package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qkart/internal/domain"
)

const noCartMessage = "User does not have a cart"

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=2147483647"`
}

// Quantity 0 removes the item.
type updateItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required,min=0,max=2147483647"`
}

type cartResponse struct {
	*domain.Cart
	Total int64 `json:"total"`
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := svc.Quote(c.Request.Context(), currentUser(c))
		if err != nil {
			writeError(c, err, noCartMessage)
			return
		}
		c.JSON(http.StatusOK, cartResponse{Cart: q.Cart, Total: q.Total})
	}
}

func addToCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), currentUser(c), req.ProductID, req.Quantity)
		if err != nil {
			writeError(c, err, noCartMessage)
			return
		}
		respondWithCart(c, cart, http.StatusCreated)
	}
}

func updateCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		user := currentUser(c)
		if *req.Quantity == 0 {
			if err := svc.RemoveItem(c.Request.Context(), user, req.ProductID); err != nil {
				writeError(c, err, noCartMessage)
				return
			}
			c.Status(http.StatusNoContent)
			return
		}
		cart, err := svc.UpdateItem(c.Request.Context(), user, req.ProductID, *req.Quantity)
		if err != nil {
			writeError(c, err, noCartMessage)
			return
		}
		respondWithCart(c, cart, http.StatusOK)
	}
}

func removeFromCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveItem(c.Request.Context(), currentUser(c), c.Param("productId")); err != nil {
			writeError(c, err, noCartMessage)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func checkoutHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Checkout(c.Request.Context(), currentUser(c)); err != nil {
			writeError(c, err, noCartMessage)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func respondWithCart(c *gin.Context, cart *domain.Cart, status int) {
	total, err := cart.Total()
	if err != nil {
		writeError(c, err, noCartMessage)
		return
	}
	c.JSON(status, cartResponse{Cart: cart, Total: total})
}
