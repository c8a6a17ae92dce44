package handler

import (
	"net/http"

	"github.com/daeldrn/fdashboardtemplate/internal/middleware"

	"github.com/gin-gonic/gin"
)

// GetMe GET /api/me returns the operator named by the bearer token.
func GetMe(c *gin.Context) {
	op := middleware.Operator(c)
	c.JSON(http.StatusOK, gin.H{
		"operator":      op,
		"authenticated": op != "",
	})
}
