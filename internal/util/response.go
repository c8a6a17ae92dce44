package util

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// genericError replaces raw error text when details are not exposed.
const genericError = "internal server error"

// Error aborts the request with {message}.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Message: msg})
}

// ServerError aborts the request with {message, error}. The raw error text is
// only sent when expose is set; it is always attached to the gin context so the
// request logger records it.
func ServerError(c *gin.Context, httpStatus int, msg string, err error, expose bool) {
	detail := genericError
	if err != nil {
		_ = c.Error(err)
		if expose {
			detail = err.Error()
		}
	}
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Message: msg, Error: detail})
}
