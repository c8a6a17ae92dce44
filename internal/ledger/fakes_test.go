package ledger

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/daeldrn/fdashboardtemplate/internal/models"
)

// memStore is an in-memory CardRegistry, OperationStore and
// TransactionManager. Transactions are not isolated; failed ones leave no
// row because Create is the last step of an append.
type memStore struct {
	mu       sync.Mutex
	cards    map[uint]*models.FuelCard
	ops      []models.FuelOperation
	nextID   uint
	createFn func(op *models.FuelOperation) error
}

func newMemStore(cards ...models.FuelCard) *memStore {
	s := &memStore{cards: make(map[uint]*models.FuelCard)}
	for i := range cards {
		c := cards[i]
		s.cards[c.ID] = &c
	}
	return s
}

func (s *memStore) Get(_ context.Context, id uint) (*models.FuelCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, ErrCardNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) Lock(ctx context.Context, id uint) (*models.FuelCard, error) {
	return s.Get(ctx, id)
}

func (s *memStore) Latest(_ context.Context, cardID uint) (*models.FuelOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.FuelOperation
	for i := range s.ops {
		op := &s.ops[i]
		if op.FuelCardID != cardID {
			continue
		}
		if latest == nil || op.OccurredAt.After(latest.OccurredAt) ||
			(op.OccurredAt.Equal(latest.OccurredAt) && op.ID > latest.ID) {
			latest = op
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *memStore) Create(_ context.Context, op *models.FuelOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createFn != nil {
		if err := s.createFn(op); err != nil {
			return err
		}
	}
	s.nextID++
	op.ID = s.nextID
	for i := range op.Distributions {
		op.Distributions[i].FuelOperationID = op.ID
	}
	s.ops = append(s.ops, *op)
	return nil
}

func (s *memStore) GetOperation(id uint) (*models.FuelOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ops {
		if s.ops[i].ID == id {
			cp := s.ops[i]
			return &cp, nil
		}
	}
	return nil, ErrOperationNotFound
}

func (s *memStore) List(_ context.Context, q ListQuery) ([]models.FuelOperation, int64, error) {
	rows := s.matching(q.Filter)
	total := int64(len(rows))
	start := q.Offset()
	if start >= len(rows) {
		return nil, total, nil
	}
	end := start + q.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], total, nil
}

func (s *memStore) All(_ context.Context, f Filter) ([]models.FuelOperation, error) {
	return s.matching(f), nil
}

func (s *memStore) matching(f Filter) []models.FuelOperation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.FuelOperation
	for _, op := range s.ops {
		if f.CardID != nil && op.FuelCardID != *f.CardID {
			continue
		}
		if f.Search != "" && !strings.Contains(string(op.Kind), f.Search) {
			continue
		}
		out = append(out, op)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ops)
}

func (s *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// opStore adapts memStore's Get for the OperationStore interface, which
// collides with CardRegistry.Get.
type opStore struct{ *memStore }

func (o opStore) Get(_ context.Context, id uint) (*models.FuelOperation, error) {
	return o.GetOperation(id)
}

type recordingPublisher struct {
	mu  sync.Mutex
	ids []uint
	err error
}

func (p *recordingPublisher) PublishOperationRecorded(_ context.Context, op *models.FuelOperation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.ids = append(p.ids, op.ID)
	return nil
}

var errBroker = errors.New("broker unavailable")
