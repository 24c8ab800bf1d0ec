package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/baigrayyan/music-recommender/internal/logger"
	"github.com/baigrayyan/music-recommender/internal/services"
)

// ContextAdminKey holds the authenticated admin's username.
const ContextAdminKey = "admin"

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": message,
	})
}

// JWTMiddleware admits requests carrying a valid admin bearer token.
func JWTMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization format")
			return
		}

		tokenString := parts[1]
		if tokenString == "" {
			abortUnauthorized(c, "Token is empty")
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				abortUnauthorized(c, "Token has expired")
			case errors.Is(err, jwt.ErrTokenNotValidYet):
				abortUnauthorized(c, "Token not valid yet")
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				abortUnauthorized(c, "Invalid token signature")
			case errors.Is(err, jwt.ErrTokenMalformed):
				abortUnauthorized(c, "Token is malformed")
			default:
				abortUnauthorized(c, "Token validation failed")
			}
			return
		}

		c.Set(ContextAdminKey, claims.Subject)
		logger.Debug().Str("admin", claims.Subject).Str("path", c.FullPath()).Msg("admin authenticated")
		c.Next()
	}
}
