package handler

import (
	"net/http"

	"github.com/daeldrn/fdashboardtemplate/internal/ledger"
	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/gin-gonic/gin"
)

// FuelCardHandler exposes the read-only card view with its running balance.
type FuelCardHandler struct {
	Ledger       *ledger.Service
	ExposeErrors bool
}

func NewFuelCardHandler(svc *ledger.Service, exposeErrors bool) *FuelCardHandler {
	return &FuelCardHandler{Ledger: svc, ExposeErrors: exposeErrors}
}

// GetCard GET /api/fuel-cards/:id
func (h *FuelCardHandler) GetCard(c *gin.Context) {
	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid id")
		return
	}

	cb, err := h.Ledger.CardBalance(c.Request.Context(), id)
	if err != nil {
		writeLedgerError(c, err, "Error fetching fuel card", h.ExposeErrors)
		return
	}
	c.JSON(http.StatusOK, cb)
}
