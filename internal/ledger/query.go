package ledger

import (
	"strings"

	"github.com/daeldrn/fdashboardtemplate/internal/models"
)

const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMaxLimit = 100
	DefaultOrderBy  = "fecha"
)

// sortColumns maps the wire field names accepted in orderBy to columns.
// Anything else falls back to DefaultOrderBy.
var sortColumns = map[string]string{
	"id":                   "id",
	"fecha":                "occurred_at",
	"tipoOperacion":        "kind",
	"fuelCardId":           "fuel_card_id",
	"saldoInicio":          "opening_balance",
	"valorOperacionDinero": "amount_money",
	"valorOperacionLitros": "amount_liters",
	"saldoFinal":           "closing_balance",
	"saldoFinalLitros":     "closing_liters",
	"createdAt":            "created_at",
}

// SortColumn resolves an orderBy field through the allow-list.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// Filter selects operations for listing and export.
type Filter struct {
	// Search matches, as a substring, the operation kind, the card number or
	// the plate of any vehicle the operation was distributed to.
	Search string
	CardID *uint
}

// ListQuery is a normalized list request.
type ListQuery struct {
	Filter
	Page    int
	Limit   int
	OrderBy string // column name, already resolved through SortColumn
	Desc    bool
}

// Offset is the number of rows skipped before the window.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ListParams is the raw list request as received from a client.
type ListParams struct {
	Search         string
	CardID         *uint
	Page           int
	Limit          int
	OrderBy        string
	OrderDirection string
}

// Normalize applies defaults and bounds to raw params.
func (p ListParams) Normalize(defaultLimit, maxLimit int) ListQuery {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit < defaultLimit {
		maxLimit = DefaultMaxLimit
	}

	q := ListQuery{
		Filter: Filter{Search: strings.TrimSpace(p.Search), CardID: p.CardID},
		Page:   p.Page,
		Limit:  p.Limit,
		Desc:   !strings.EqualFold(p.OrderDirection, "asc"),
	}
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	col, ok := SortColumn(p.OrderBy)
	if !ok {
		col, _ = SortColumn(DefaultOrderBy)
	}
	q.OrderBy = col
	return q
}

// Page is one window of a list result.
type Page struct {
	Data  []models.FuelOperation `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}
