package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/models"
	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DistributionInput is one requested allocation of a consumption.
type DistributionInput struct {
	VehicleID uint
	Liters    decimal.Decimal
}

// AppendInput carries an operation as entered by the operator.
type AppendInput struct {
	CardID        uint
	Kind          string
	Date          string
	Amount        decimal.Decimal
	Distributions []DistributionInput
}

// CardBalance is a card together with the balance left by its latest operation.
type CardBalance struct {
	models.FuelCard
	Balance         decimal.Decimal `json:"saldoFinal"`
	BalanceLiters   decimal.Decimal `json:"saldoFinalLitros"`
	LastOperationAt *time.Time      `json:"ultimaOperacion"`
}

// Service owns the running-balance ledger of every fuel card.
type Service struct {
	cards     CardRegistry
	ops       OperationStore
	tx        TransactionManager
	locker    Locker
	publisher EventPublisher
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the publisher notified after each committed append.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a ledger service. A nil locker means in-process locking.
func NewService(cards CardRegistry, ops OperationStore, tx TransactionManager, locker Locker, opts ...Option) *Service {
	if locker == nil {
		locker = NewLocalLocker()
	}
	s := &Service{
		cards:  cards,
		ops:    ops,
		tx:     tx,
		locker: locker,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CardLockKey is the lock name guarding a card's ledger.
func CardLockKey(cardID uint) string {
	return fmt.Sprintf("fuel-card:%d", cardID)
}

// Append records a new operation at the end of the card's ledger.
func (s *Service) Append(ctx context.Context, in AppendInput) (*models.FuelOperation, error) {
	// request fields are checked before the card is looked up, so a bad kind
	// or date is reported even when the card does not exist
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}
	at, err := util.ParseTimestamp(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}

	var op *models.FuelOperation
	err = s.locker.WithLock(ctx, CardLockKey(in.CardID), func(ctx context.Context) error {
		return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			card, err := s.cards.Lock(ctx, in.CardID)
			if err != nil {
				return err
			}
			if !card.FuelPrice.IsPositive() {
				return fmt.Errorf("%w: card %d has price %s", ErrInvalidFuelPrice, card.ID, card.FuelPrice)
			}

			latest, err := s.ops.Latest(ctx, card.ID)
			if err != nil {
				return fmt.Errorf("load latest operation: %w", err)
			}
			if latest != nil && at.Before(latest.OccurredAt) {
				return fmt.Errorf("%w: %s is before %s", ErrOutOfOrder,
					at.Format(time.RFC3339), latest.OccurredAt.UTC().Format(time.RFC3339))
			}

			bal, err := Compute(kind, OpeningBalance(latest), in.Amount, card.FuelPrice)
			if err != nil {
				return err
			}

			op = &models.FuelOperation{
				Kind:           kind,
				OccurredAt:     at,
				FuelCardID:     card.ID,
				OpeningBalance: bal.Opening,
				AmountMoney:    bal.Amount,
				AmountLiters:   bal.AmountLiters,
				ClosingBalance: bal.Closing,
				ClosingLiters:  bal.ClosingLiters,
			}
			if kind == models.OperationConsumption {
				for _, d := range in.Distributions {
					op.Distributions = append(op.Distributions, models.FuelDistribution{
						VehicleID: d.VehicleID,
						Liters:    d.Liters.Round(LitersPrecision),
					})
				}
			}

			if err := s.ops.Create(ctx, op); err != nil {
				return fmt.Errorf("create fuel operation: %w", err)
			}
			op.FuelCard = card
			return nil
		})
	})
	if err != nil {
		s.logger.Warn("fuel operation rejected",
			zap.Uint("fuel_card_id", in.CardID),
			zap.String("tipo_operacion", in.Kind),
			zap.Error(err))
		return nil, err
	}
	if op.Distributions == nil {
		op.Distributions = []models.FuelDistribution{}
	}

	s.logger.Info("fuel operation recorded",
		zap.Uint("operation_id", op.ID),
		zap.Uint("fuel_card_id", op.FuelCardID),
		zap.String("tipo_operacion", string(op.Kind)),
		zap.String("saldo_final", op.ClosingBalance.String()))

	s.publish(ctx, op)
	return op, nil
}

// publish is best effort: the operation is already committed.
func (s *Service) publish(ctx context.Context, op *models.FuelOperation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOperationRecorded(context.WithoutCancel(ctx), op); err != nil {
		s.logger.Error("publish operation recorded",
			zap.Uint("operation_id", op.ID),
			zap.Error(err))
	}
}

// List returns one page of operations matching q.
func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	rows, total, err := s.ops.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list fuel operations: %w", err)
	}
	if rows == nil {
		rows = []models.FuelOperation{}
	}
	return &Page{Data: rows, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// Get returns a single operation with its card and distributions.
func (s *Service) Get(ctx context.Context, id uint) (*models.FuelOperation, error) {
	return s.ops.Get(ctx, id)
}

// Export returns every operation matching f, oldest first.
func (s *Service) Export(ctx context.Context, f Filter) ([]models.FuelOperation, error) {
	rows, err := s.ops.All(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("export fuel operations: %w", err)
	}
	return rows, nil
}

// CardBalance returns the card and the balance after its latest operation.
func (s *Service) CardBalance(ctx context.Context, cardID uint) (*CardBalance, error) {
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	latest, err := s.ops.Latest(ctx, card.ID)
	if err != nil {
		return nil, fmt.Errorf("load latest operation: %w", err)
	}

	cb := &CardBalance{
		FuelCard:      *card,
		Balance:       OpeningBalance(latest),
		BalanceLiters: decimal.Zero,
	}
	if latest != nil {
		cb.BalanceLiters = latest.ClosingLiters
		at := latest.OccurredAt
		cb.LastOperationAt = &at
	}
	return cb, nil
}
