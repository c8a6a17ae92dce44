package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/daeldrn/fdashboardtemplate/internal/ledger"
	"github.com/daeldrn/fdashboardtemplate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const operationsTable = "fuel_operations"

// FuelOperationRepository stores ledger rows and their distributions.
type FuelOperationRepository struct {
	db *gorm.DB
}

func NewFuelOperationRepository(db *gorm.DB) *FuelOperationRepository {
	return &FuelOperationRepository{db: db}
}

// Latest returns the card's most recent operation, or nil for an empty ledger.
// Ties on fecha are broken by insertion order.
func (r *FuelOperationRepository) Latest(ctx context.Context, cardID uint) (*models.FuelOperation, error) {
	var ops []models.FuelOperation
	err := conn(ctx, r.db).
		Where("fuel_card_id = ?", cardID).
		Order("occurred_at DESC, id DESC").
		Limit(1).
		Find(&ops).Error
	if err != nil {
		return nil, fmt.Errorf("latest fuel operation: %w", err)
	}
	if len(ops) == 0 {
		return nil, nil
	}
	return &ops[0], nil
}

// Create inserts op and its distributions in the current transaction.
func (r *FuelOperationRepository) Create(ctx context.Context, op *models.FuelOperation) error {
	return conn(ctx, r.db).Omit("FuelCard").Create(op).Error
}

func (r *FuelOperationRepository) Get(ctx context.Context, id uint) (*models.FuelOperation, error) {
	var op models.FuelOperation
	err := withRelations(conn(ctx, r.db)).First(&op, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ledger.ErrOperationNotFound, id)
		}
		return nil, fmt.Errorf("get fuel operation: %w", err)
	}
	return &op, nil
}

func (r *FuelOperationRepository) List(ctx context.Context, q ledger.ListQuery) ([]models.FuelOperation, int64, error) {
	base := applyFilter(conn(ctx, r.db).Model(&models.FuelOperation{}), q.Filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count fuel operations: %w", err)
	}

	orderBy := q.OrderBy
	if _, ok := allowedColumns[orderBy]; !ok {
		orderBy = "occurred_at"
	}

	var rows []models.FuelOperation
	err := withRelations(base.Session(&gorm.Session{})).
		Order(orderColumn(orderBy, q.Desc)).
		Order(orderColumn("id", q.Desc)).
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list fuel operations: %w", err)
	}
	return rows, total, nil
}

// All returns every matching operation, oldest first.
func (r *FuelOperationRepository) All(ctx context.Context, f ledger.Filter) ([]models.FuelOperation, error) {
	var rows []models.FuelOperation
	err := withRelations(applyFilter(conn(ctx, r.db).Model(&models.FuelOperation{}), f)).
		Order(orderColumn("occurred_at", false)).
		Order(orderColumn("id", false)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("export fuel operations: %w", err)
	}
	return rows, nil
}

// allowedColumns guards the ORDER BY column against anything that did not
// come through ledger.SortColumn.
var allowedColumns = map[string]struct{}{
	"id": {}, "occurred_at": {}, "kind": {}, "fuel_card_id": {},
	"opening_balance": {}, "amount_money": {}, "amount_liters": {},
	"closing_balance": {}, "closing_liters": {}, "created_at": {},
}

func orderColumn(name string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Table: operationsTable, Name: name},
		Desc:   desc,
	}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("FuelCard").
		Preload("Distributions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Distributions.Vehicle")
}

// searchClause matches the kind, the card number or the plate of any vehicle
// the operation was distributed to. %[1]s is a case-sensitive substring
// position function, so the search text needs no escaping.
const searchClause = `(%[1]s(fuel_operations.kind, ?) > 0
	OR EXISTS (SELECT 1 FROM fuel_cards fc
		WHERE fc.id = fuel_operations.fuel_card_id AND %[1]s(fc.number, ?) > 0)
	OR EXISTS (SELECT 1 FROM fuel_distributions fd JOIN vehicles v ON v.id = fd.vehicle_id
		WHERE fd.fuel_operation_id = fuel_operations.id AND %[1]s(v.plate, ?) > 0))`

// substringFunc returns the dialect's equivalent of SQLite's instr. LIKE is
// avoided because SQLite folds ASCII case in it.
func substringFunc(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "strpos"
	}
	return "instr"
}

func applyFilter(db *gorm.DB, f ledger.Filter) *gorm.DB {
	if f.CardID != nil {
		db = db.Where("fuel_operations.fuel_card_id = ?", *f.CardID)
	}
	if f.Search != "" {
		db = db.Where(fmt.Sprintf(searchClause, substringFunc(db)), f.Search, f.Search, f.Search)
	}
	return db
}
