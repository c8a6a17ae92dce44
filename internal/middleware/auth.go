package middleware

import (
	"net/http"
	"strings"

	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/gin-gonic/gin"
)

const operatorKey = "operator"

// Operator returns the authenticated operator, or "" when the guard is off.
func Operator(c *gin.Context) string {
	return c.GetString(operatorKey)
}

// AuthMiddleware checks the operator JWT. Sessions are issued elsewhere; this
// only verifies the token and stores its subject in the context.
func AuthMiddleware(jwtSecret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}

		// 2) ?token=xxx for downloads where headers cannot be set
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := util.ParseToken(jwtSecret, issuer, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(operatorKey, claims.Operator())
		c.Next()
	}
}
