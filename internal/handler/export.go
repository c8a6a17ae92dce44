package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/ledger"
	"github.com/daeldrn/fdashboardtemplate/internal/models"
	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ExportHandler struct {
	Ledger       *ledger.Service
	ExposeErrors bool
}

func NewExportHandler(svc *ledger.Service, exposeErrors bool) *ExportHandler {
	return &ExportHandler{Ledger: svc, ExposeErrors: exposeErrors}
}

var exportHeaders = []string{
	"id", "fecha", "tipoOperacion", "numeroDeTarjeta", "moneda",
	"saldoInicio", "valorOperacionDinero", "valorOperacionLitros",
	"saldoFinal", "saldoFinalLitros", "fuelDistributions",
}

// exportRow flattens an operation into the exportHeaders columns.
func exportRow(op *models.FuelOperation) []string {
	var cardNumber, currency string
	if op.FuelCard != nil {
		cardNumber = op.FuelCard.Number
		currency = op.FuelCard.Currency
	}

	dists := make([]string, 0, len(op.Distributions))
	for _, d := range op.Distributions {
		vehicle := strconv.FormatUint(uint64(d.VehicleID), 10)
		if d.Vehicle != nil {
			vehicle = d.Vehicle.Plate
		}
		dists = append(dists, vehicle+":"+d.Liters.String())
	}

	return []string{
		strconv.FormatUint(uint64(op.ID), 10),
		op.OccurredAt.UTC().Format(time.RFC3339),
		string(op.Kind),
		cardNumber,
		currency,
		op.OpeningBalance.StringFixed(2),
		op.AmountMoney.StringFixed(2),
		op.AmountLiters.StringFixed(ledger.LitersPrecision),
		op.ClosingBalance.StringFixed(2),
		op.ClosingLiters.StringFixed(ledger.LitersPrecision),
		strings.Join(dists, "; "),
	}
}

func (h *ExportHandler) load(c *gin.Context) ([]models.FuelOperation, bool) {
	f, ok := parseFilter(c)
	if !ok {
		return nil, false
	}
	rows, err := h.Ledger.Export(c.Request.Context(), f)
	if err != nil {
		util.ServerError(c, http.StatusInternalServerError, "Error exporting fuel operations", err, h.ExposeErrors)
		return nil, false
	}
	return rows, true
}

// ExportCSV GET /api/export/fuel-operations/csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, ok := h.load(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"fuel_operations_%s.csv\"",
		time.Now().Format("20060102")))
	c.Status(http.StatusOK)

	// UTF-8 BOM so spreadsheet apps keep accented card types intact
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range rows {
		writer.Write(exportRow(&rows[i]))
	}
}

// ExportXLSX GET /api/export/fuel-operations/xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	rows, ok := h.load(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Operaciones"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		util.ServerError(c, http.StatusInternalServerError, "Error exporting fuel operations", err, h.ExposeErrors)
		return
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range rows {
		op := &rows[idx]
		row := idx + 2
		values := exportRow(op)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			switch col {
			case 0, 1, 2, 3, 4, 10:
				f.SetCellValue(sheetName, cell, v)
			default:
				// numeric columns stay numeric in the sheet
				n, _ := strconv.ParseFloat(v, 64)
				f.SetCellFloat(sheetName, cell, n, -1, 64)
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 22)
	f.SetColWidth(sheetName, "E", "E", 8)
	f.SetColWidth(sheetName, "F", "J", 16)
	f.SetColWidth(sheetName, "K", "K", 40)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"fuel_operations_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
