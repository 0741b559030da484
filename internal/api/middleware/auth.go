package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// RequireAuth rejects requests without a valid bearer token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, email, ok := am.parseToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("email", email)
		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a token is present but
// lets the request through either way. Read endpoints use it so the service
// layer can answer anonymous callers with empty results instead of an error.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, email, ok := am.parseToken(c); ok {
			c.Set("user_id", userID)
			c.Set("email", email)
		}
		c.Next()
	}
}

func (am *AuthMiddleware) parseToken(c *gin.Context) (uint, string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, "", false
	}

	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(am.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", false
	}

	email, _ := claims["email"].(string)
	return uint(userID), email, true
}
