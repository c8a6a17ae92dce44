package router

import (
	"github.com/daeldrn/fdashboardtemplate/internal/config"
	"github.com/daeldrn/fdashboardtemplate/internal/handler"
	"github.com/daeldrn/fdashboardtemplate/internal/ledger"
	"github.com/daeldrn/fdashboardtemplate/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the /api routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, svc *ledger.Service, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))

	r.GET("/healthz", handler.Health(db))

	// ====== API ======
	api := r.Group("/api")

	// the guard is only enabled when a secret is configured; sessions are
	// issued by the dashboard's identity provider
	if cfg.JWT.Secret != "" {
		api.Use(middleware.AuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer))
	}
	api.Use(middleware.AuditMiddleware(db, cfg.Security.EncryptionKey, logger))

	api.GET("/me", handler.GetMe)

	opHandler := handler.NewFuelOperationHandler(svc, cfg.App.PageSize, cfg.App.MaxPageSize, cfg.Server.ExposeErrors)
	api.GET("/fuel-operations", opHandler.ListOperations)
	api.POST("/fuel-operations", opHandler.CreateOperation)
	api.GET("/fuel-operations/:id", opHandler.GetOperation)

	cardHandler := handler.NewFuelCardHandler(svc, cfg.Server.ExposeErrors)
	api.GET("/fuel-cards/:id", cardHandler.GetCard)

	exportHandler := handler.NewExportHandler(svc, cfg.Server.ExposeErrors)
	api.GET("/export/fuel-operations/csv", exportHandler.ExportCSV)
	api.GET("/export/fuel-operations/xlsx", exportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(db, cfg.Security.EncryptionKey, cfg.App.PageSize, cfg.App.MaxPageSize, cfg.Server.ExposeErrors)
	api.GET("/audit-logs", logHandler.ListLogs)

	return r
}
