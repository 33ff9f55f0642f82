package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adrianacoliiin/scanna-backend/internal/domain/entity"
)

// TokenVerifier resolves a bearer token to its active specialist
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*entity.Specialist, error)
}

// Auth rejects requests without a valid bearer token and loads the
// authenticated specialist into the context
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "A bearer token is required")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		specialist, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("specialist", specialist)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
