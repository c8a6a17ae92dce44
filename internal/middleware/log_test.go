package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daeldrn/fdashboardtemplate/internal/config"
	"github.com/daeldrn/fdashboardtemplate/internal/database"
	"github.com/daeldrn/fdashboardtemplate/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAuditDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "audit.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestAuditMiddleware_BodyHandling(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantInLog bool
	}{
		{"small body is recorded", `{"tipoOperacion":"Carga"}`, true},
		{"large body is passed through but not recorded", strings.Repeat("x", 5*maxAuditBody), false},
		{"body at the limit is not recorded", strings.Repeat("y", maxAuditBody), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			db := setupAuditDB(t)

			var seen string
			r := gin.New()
			r.Use(AuditMiddleware(db, "", zap.NewNop()))
			r.POST("/api/fuel-operations", func(c *gin.Context) {
				b, err := io.ReadAll(c.Request.Body)
				require.NoError(t, err)
				seen = string(b)
				c.Status(http.StatusCreated)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/fuel-operations", strings.NewReader(tt.body))
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusCreated, w.Code)
			assert.Equal(t, tt.body, seen)

			var entry models.AuditLog
			require.NoError(t, db.First(&entry).Error)
			assert.Equal(t, http.StatusCreated, entry.Status)
			assert.Equal(t, "/api/fuel-operations", entry.PathEnc)
			if tt.wantInLog {
				assert.Equal(t, "POST /api/fuel-operations "+tt.body, entry.ActionEnc)
			} else {
				assert.Equal(t, "POST /api/fuel-operations", entry.ActionEnc)
			}
		})
	}
}

func TestAuditMiddleware_SkipsReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupAuditDB(t)

	r := gin.New()
	r.Use(AuditMiddleware(db, "", zap.NewNop()))
	r.GET("/api/fuel-operations", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/fuel-operations", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.Zero(t, count)
}
