//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/config"
	"github.com/daeldrn/fdashboardtemplate/internal/database"
	"github.com/daeldrn/fdashboardtemplate/internal/ledger"
	"github.com/daeldrn/fdashboardtemplate/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupPostgres starts a disposable PostgreSQL container and returns a
// migrated connection. The container is terminated on test cleanup.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("fleet"),
		tcpostgres.WithUsername("fleet"),
		tcpostgres.WithPassword("fleet"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Init(config.DatabaseConfig{Driver: "postgres", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestPostgres_ConcurrentAppendsWithRowLock(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	card := models.FuelCard{Number: "9200-3333", FuelPrice: decimal.RequireFromString("1.50"), Currency: "CUP"}
	require.NoError(t, db.Create(&card).Error)

	cards := NewFuelCardRepository(db)
	ops := NewFuelOperationRepository(db)
	tx := NewTransactionManager(db)

	// two services with separate in-process lockers behave like two replicas;
	// only the row lock keeps the chain consistent
	replicas := []*ledger.Service{
		ledger.NewService(cards, ops, tx, ledger.NewLocalLocker()),
		ledger.NewService(cards, ops, tx, ledger.NewLocalLocker()),
	}

	const perReplica = 10
	var wg sync.WaitGroup
	for _, svc := range replicas {
		for i := 0; i < perReplica; i++ {
			wg.Add(1)
			go func(svc *ledger.Service) {
				defer wg.Done()
				_, err := svc.Append(ctx, ledger.AppendInput{CardID: card.ID, Kind: "Carga", Date: "2024-05-01T10:00:00Z", Amount: decimal.NewFromInt(3)})
				assert.NoError(t, err)
			}(svc)
		}
	}
	wg.Wait()

	rows, err := ops.All(ctx, ledger.Filter{CardID: &card.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2*perReplica)

	prev := decimal.Zero
	for _, op := range rows {
		assert.True(t, op.OpeningBalance.Equal(prev), "op %d opens at %s, want %s", op.ID, op.OpeningBalance, prev)
		prev = op.ClosingBalance
	}
	assert.Equal(t, "60", prev.String())
	assert.Equal(t, "40", rows[len(rows)-1].ClosingLiters.String())

	page, err := replicas[0].List(ctx, ledger.ListParams{Search: "3333", Limit: 5}.Normalize(10, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(2*perReplica), page.Total)
	assert.Len(t, page.Data, 5)
}
