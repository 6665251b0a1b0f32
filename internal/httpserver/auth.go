package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qkart/internal/domain"
	authsvc "qkart/internal/service/auth"
)

const userCtxKey = "qkart.user"

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User   *domain.User       `json:"user"`
	Tokens authsvc.AuthTokens `json:"tokens"`
}

// authMiddleware resolves the bearer token into a user stored on the context.
func authMiddleware(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Please authenticate")
			return
		}
		u, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil || u == nil {
			abortWith(c, http.StatusUnauthorized, "Please authenticate")
			return
		}
		c.Set(userCtxKey, *u)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentUser is only valid behind authMiddleware.
func currentUser(c *gin.Context) domain.User {
	return c.MustGet(userCtxKey).(domain.User)
}

func registerHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		u, err := svc.Register(c.Request.Context(), authsvc.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeError(c, err, "User not found")
			return
		}
		respondWithTokens(c, svc, u, http.StatusCreated)
	}
}

func loginHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		u, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err, "User not found")
			return
		}
		respondWithTokens(c, svc, u, http.StatusOK)
	}
}

func respondWithTokens(c *gin.Context, svc AuthService, u *domain.User, status int) {
	tokens, err := svc.GenerateAuthTokens(u)
	if err != nil {
		writeError(c, err, "User not found")
		return
	}
	c.JSON(status, authResponse{User: u, Tokens: tokens})
}
