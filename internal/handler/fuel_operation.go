package handler

import (
	"net/http"

	"github.com/daeldrn/fdashboardtemplate/internal/ledger"
	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FuelOperationHandler serves the fuel operation ledger.
type FuelOperationHandler struct {
	Ledger       *ledger.Service
	PageSize     int
	MaxPageSize  int
	ExposeErrors bool
}

func NewFuelOperationHandler(svc *ledger.Service, pageSize, maxPageSize int, exposeErrors bool) *FuelOperationHandler {
	return &FuelOperationHandler{
		Ledger:       svc,
		PageSize:     pageSize,
		MaxPageSize:  maxPageSize,
		ExposeErrors: exposeErrors,
	}
}

type distributionRequest struct {
	VehicleID uint             `json:"vehicleId" binding:"required"`
	Liters    *decimal.Decimal `json:"liters" binding:"required"`
}

type createOperationRequest struct {
	Kind          string                `json:"tipoOperacion"`
	Date          string                `json:"fecha"`
	Amount        *decimal.Decimal      `json:"valorOperacionDinero" binding:"required"`
	CardID        uint                  `json:"fuelCardId" binding:"required"`
	Distributions []distributionRequest `json:"fuelDistributions" binding:"omitempty,dive"`
}

// parseFilter reads search and fuelCardId shared by list and export.
func parseFilter(c *gin.Context) (ledger.Filter, bool) {
	f := ledger.Filter{Search: c.Query("search")}
	if raw, ok := c.GetQuery("fuelCardId"); ok && raw != "" {
		id, err := util.ParseID(raw)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid fuelCardId")
			return f, false
		}
		f.CardID = &id
	}
	return f, true
}

// ListOperations GET /api/fuel-operations
func (h *FuelOperationHandler) ListOperations(c *gin.Context) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	q := ledger.ListParams{
		Search:         f.Search,
		CardID:         f.CardID,
		Page:           util.ParsePositiveInt(c.Query("page")),
		Limit:          util.ParsePositiveInt(c.Query("limit")),
		OrderBy:        c.Query("orderBy"),
		OrderDirection: c.Query("orderDirection"),
	}.Normalize(h.PageSize, h.MaxPageSize)

	page, err := h.Ledger.List(c.Request.Context(), q)
	if err != nil {
		util.ServerError(c, http.StatusInternalServerError, "Error fetching fuel operations", err, h.ExposeErrors)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateOperation POST /api/fuel-operations
func (h *FuelOperationHandler) CreateOperation(c *gin.Context) {
	var req createOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	in := ledger.AppendInput{
		CardID: req.CardID,
		Kind:   req.Kind,
		Date:   req.Date,
		Amount: *req.Amount,
	}
	for _, d := range req.Distributions {
		in.Distributions = append(in.Distributions, ledger.DistributionInput{
			VehicleID: d.VehicleID,
			Liters:    *d.Liters,
		})
	}

	op, err := h.Ledger.Append(c.Request.Context(), in)
	if err != nil {
		writeLedgerError(c, err, "Error creating fuel operation", h.ExposeErrors)
		return
	}
	c.JSON(http.StatusCreated, op)
}

// GetOperation GET /api/fuel-operations/:id
func (h *FuelOperationHandler) GetOperation(c *gin.Context) {
	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid id")
		return
	}

	op, err := h.Ledger.Get(c.Request.Context(), id)
	if err != nil {
		writeLedgerError(c, err, "Error fetching fuel operation", h.ExposeErrors)
		return
	}
	c.JSON(http.StatusOK, op)
}
