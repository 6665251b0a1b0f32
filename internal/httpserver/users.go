package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addressRequest struct {
	Address string `json:"address" binding:"required"`
}

// ownerOnly rejects requests for a user id other than the caller's.
func ownerOnly(c *gin.Context) bool {
	if c.Param("userId") != currentUser(c).ID {
		abortWith(c, http.StatusForbidden, "User not found")
		return false
	}
	return true
}

func getUserHandler(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ownerOnly(c) {
			return
		}
		u, err := svc.Get(c.Request.Context(), c.Param("userId"))
		if err != nil {
			writeError(c, err, "User not found")
			return
		}
		if c.Query("q") == "address" {
			c.JSON(http.StatusOK, gin.H{"address": u.Address})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func setAddressHandler(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ownerOnly(c) {
			return
		}
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		u, err := svc.SetAddress(c.Request.Context(), currentUser(c), req.Address)
		if err != nil {
			writeError(c, err, "User not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": u.Address})
	}
}
