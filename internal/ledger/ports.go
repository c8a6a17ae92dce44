package ledger

import (
	"context"

	"github.com/daeldrn/fdashboardtemplate/internal/models"
)

// CardRegistry is the read path of the fuel card store.
type CardRegistry interface {
	// Get returns the card or ErrCardNotFound.
	Get(ctx context.Context, id uint) (*models.FuelCard, error)

	// Lock reads the card and, where the store supports it, holds a row lock
	// until the surrounding transaction ends. Must run inside WithTransaction.
	Lock(ctx context.Context, id uint) (*models.FuelCard, error)
}

// OperationStore persists and queries ledger rows.
type OperationStore interface {
	// Latest returns the card's most recent operation by fecha, or nil.
	Latest(ctx context.Context, cardID uint) (*models.FuelOperation, error)

	// Create inserts the operation together with its distributions.
	Create(ctx context.Context, op *models.FuelOperation) error

	// Get returns the operation with card and distributions, or ErrOperationNotFound.
	Get(ctx context.Context, id uint) (*models.FuelOperation, error)

	// List returns one window of matching operations and the total match count.
	List(ctx context.Context, q ListQuery) ([]models.FuelOperation, int64, error)

	// All returns every matching operation ordered oldest first, for exports.
	All(ctx context.Context, f Filter) ([]models.FuelOperation, error)
}

// TransactionManager runs fn inside one database transaction.
// If fn returns an error the transaction is rolled back.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker serializes work on a key across goroutines (and, for distributed
// implementations, across replicas).
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// EventPublisher emits domain events to external systems.
type EventPublisher interface {
	PublishOperationRecorded(ctx context.Context, op *models.FuelOperation) error
}
