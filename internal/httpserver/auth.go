package httpserver

import (
	"errors"
	"net/http"

	authsvc "storefront/internal/service/auth"
	"github.com/gin-gonic/gin"
)

func signupHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in authsvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		u, err := auth.Signup(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u})
	}
}

func loginHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidation(c, err)
			return
		}
		u, access, refresh, err := auth.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":         u,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    auth.AccessTTLSeconds(),
		})
	}
}

func anonymousTokenHandler(anon anonymousService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, sessionID, err := anon.Issue(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"token":     token,
			"sessionId": sessionID,
			"expiresIn": anon.AccessTTLSeconds(),
		})
	}
}
