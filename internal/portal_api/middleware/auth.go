package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aeroclub-flight-ledger/internal/auth"
)

const (
	// AuthClaimsKey is the key used to store validated token claims in the context
	AuthClaimsKey = "auth_claims"

	bearerPrefix = "Bearer "
)

// RequireAuth middleware validates the bearer token and stores its claims in
// the context. Requests without a valid token are rejected with 401 before
// any handler runs.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "Authorization token required")
			return
		}

		claims, err := jwtManager.Validate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(AuthClaimsKey, claims)
		c.Next()
	}
}

// GetClaims retrieves the validated token claims from the gin context
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(AuthClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
