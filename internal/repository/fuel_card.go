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

// FuelCardRepository is the read side of the fuel card registry.
type FuelCardRepository struct {
	db *gorm.DB
}

func NewFuelCardRepository(db *gorm.DB) *FuelCardRepository {
	return &FuelCardRepository{db: db}
}

func (r *FuelCardRepository) Get(ctx context.Context, id uint) (*models.FuelCard, error) {
	return r.find(conn(ctx, r.db), id)
}

// Lock reads the card inside the current transaction. On PostgreSQL the row
// stays locked (SELECT ... FOR UPDATE) until commit; SQLite already holds the
// database write lock for the whole transaction.
func (r *FuelCardRepository) Lock(ctx context.Context, id uint) (*models.FuelCard, error) {
	db := conn(ctx, r.db)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(db, id)
}

func (r *FuelCardRepository) find(db *gorm.DB, id uint) (*models.FuelCard, error) {
	var card models.FuelCard
	if err := db.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ledger.ErrCardNotFound, id)
		}
		return nil, fmt.Errorf("get fuel card: %w", err)
	}
	return &card, nil
}
