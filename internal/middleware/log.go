package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/daeldrn/fdashboardtemplate/internal/models"
	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxAuditBody = 2000

type replayBody struct {
	io.Reader
	io.Closer
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// AuditMiddleware stores one audit row per mutating request. Path and action
// are encrypted when encryptKey is set.
func AuditMiddleware(db *gorm.DB, encryptKey string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		// only the head of the body is buffered; the handler still reads all of it
		var bodyBytes []byte
		if body := c.Request.Body; body != nil {
			bodyBytes, _ = io.ReadAll(io.LimitReader(body, maxAuditBody))
			c.Request.Body = replayBody{
				Reader: io.MultiReader(bytes.NewReader(bodyBytes), body),
				Closer: body,
			}
		}

		c.Next()

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody {
			action += " " + string(bodyBytes)
		}

		encPath, err := util.EncryptField(encryptKey, path)
		if err != nil {
			logger.Error("encrypt audit path", zap.Error(err))
			return
		}
		encAction, err := util.EncryptField(encryptKey, action)
		if err != nil {
			logger.Error("encrypt audit action", zap.Error(err))
			return
		}

		entry := models.AuditLog{
			Operator:  Operator(c),
			Method:    c.Request.Method,
			PathEnc:   encPath,
			ActionEnc: encAction,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
			logger.Error("write audit log", zap.Error(err), zap.String("request_id", RequestID(c)))
		}
	}
}
