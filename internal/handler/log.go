package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/models"
	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler lists the audit trail written by middleware.AuditMiddleware.
type LogHandler struct {
	DB           *gorm.DB
	EncryptKey   string
	PageSize     int
	MaxPageSize  int
	ExposeErrors bool
}

func NewLogHandler(db *gorm.DB, encryptKey string, pageSize, maxPageSize int, exposeErrors bool) *LogHandler {
	return &LogHandler{
		DB:           db,
		EncryptKey:   encryptKey,
		PageSize:     pageSize,
		MaxPageSize:  maxPageSize,
		ExposeErrors: exposeErrors,
	}
}

// decryptField falls back to the stored value when it cannot be decrypted,
// e.g. rows written before a key was configured.
func (h *LogHandler) decryptField(cipherStr string) string {
	plain, err := util.DecryptField(h.EncryptKey, cipherStr)
	if err != nil {
		return cipherStr
	}
	return plain
}

type logResp struct {
	ID        uint      `json:"id"`
	Operator  string    `json:"operator"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Action    string    `json:"action"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListLogs GET /api/audit-logs?page&limit&operator&method&start&end
func (h *LogHandler) ListLogs(c *gin.Context) {
	page := util.ParsePositiveInt(c.Query("page"))
	if page == 0 {
		page = 1
	}
	size := util.ParsePositiveInt(c.Query("limit"))
	if size == 0 {
		size = h.PageSize
	}
	if size > h.MaxPageSize {
		size = h.MaxPageSize
	}
	offset := (page - 1) * size

	base := h.DB.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if op := strings.TrimSpace(c.Query("operator")); op != "" {
		base = base.Where("operator = ?", op)
	}
	if m := strings.TrimSpace(c.Query("method")); m != "" {
		base = base.Where("method = ?", strings.ToUpper(m))
	}
	if s := c.Query("start"); s != "" {
		start, err := util.ParseTimestamp(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid start")
			return
		}
		base = base.Where("created_at >= ?", start)
	}
	if s := c.Query("end"); s != "" {
		end, err := util.ParseTimestamp(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid end")
			return
		}
		// date-only end is inclusive of that day
		if len(strings.TrimSpace(s)) == len("2006-01-02") {
			end = end.Add(24 * time.Hour)
		}
		base = base.Where("created_at < ?", end)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.ServerError(c, http.StatusInternalServerError, "Error fetching audit logs", err, h.ExposeErrors)
		return
	}

	var logs []models.AuditLog
	if err := base.
		Order("created_at DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&logs).Error; err != nil {
		util.ServerError(c, http.StatusInternalServerError, "Error fetching audit logs", err, h.ExposeErrors)
		return
	}

	items := make([]logResp, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		items = append(items, logResp{
			ID:        l.ID,
			Operator:  l.Operator,
			Method:    l.Method,
			Path:      h.decryptField(l.PathEnc),
			Action:    h.decryptField(l.ActionEnc),
			Status:    l.Status,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": size,
	})
}
