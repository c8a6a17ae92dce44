package handler

import (
	"errors"
	"net/http"

	"github.com/daeldrn/fdashboardtemplate/internal/ledger"
	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/gin-gonic/gin"
)

// writeLedgerError maps ledger errors to HTTP responses. Anything unknown is
// a 500 carrying fallback as its message.
func writeLedgerError(c *gin.Context, err error, fallback string, expose bool) {
	switch {
	case errors.Is(err, ledger.ErrCardNotFound):
		util.Error(c, http.StatusNotFound, "Fuel card not found")
	case errors.Is(err, ledger.ErrOperationNotFound):
		util.Error(c, http.StatusNotFound, "Fuel operation not found")
	case errors.Is(err, ledger.ErrInvalidKind):
		util.Error(c, http.StatusBadRequest, "Invalid tipoOperacion")
	case errors.Is(err, ledger.ErrInvalidTimestamp):
		util.Error(c, http.StatusBadRequest, "Invalid fecha")
	case errors.Is(err, ledger.ErrAmountOutOfRange):
		util.Error(c, http.StatusBadRequest, "valorOperacionDinero is out of range")
	case errors.Is(err, ledger.ErrOutOfOrder):
		util.Error(c, http.StatusConflict, "fecha is earlier than the card's latest operation")
	case errors.Is(err, ledger.ErrInvalidFuelPrice):
		util.Error(c, http.StatusUnprocessableEntity, "Fuel card has an invalid precioCombustible")
	default:
		util.ServerError(c, http.StatusInternalServerError, fallback, err, expose)
	}
}
