//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tijara/backend/internal/domain/finance"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/migration"
	"github.com/tijara/backend/migrations"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgresDB starts a PostgreSQL container and applies the SQL migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tijara_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig(gormlogger.Default.LogMode(gormlogger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.NotZero(t, version)

	return db
}

func TestPostgres_InvoiceUniquePerOrder(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	tenantID := uuid.New()

	client, err := partner.NewClient(tenantID, "Atlas Construction", "001525478000012", partner.Contact{})
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Save(ctx, client))

	p := newTestProduct(t, tenantID, "Ciment", 100)
	require.NoError(t, NewGormProductRepository(db).Save(ctx, p))

	clientID := client.ID
	order, err := trade.NewSalesOrder(tenantID, "CMD-2025-00001", trade.OrderHeader{
		ClientID:   &clientID,
		ClientName: client.Name,
		ClientType: trade.ClientTypeCompany,
	}, []trade.LineInput{lineFor(p, 2)})
	require.NoError(t, err)
	require.NoError(t, NewGormSalesOrderRepository(db).Save(ctx, order))

	repo := NewGormInvoiceRepository(db)
	first, err := finance.NewInvoiceFromOrder(order, "FAC-2025-001", time.Now())
	require.NoError(t, err)
	second, err := finance.NewInvoiceFromOrder(order, "FAC-2025-002", time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))
	assert.ErrorIs(t, repo.Save(ctx, second), finance.ErrAlreadyInvoiced)
}

func TestPostgres_InvoiceSequenceIsGapFreeUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(newPostgresDB(t))
	tenantID := uuid.New()

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]bool, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.NextSequence(ctx, tenantID, 2025)
			assert.NoError(t, err)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[i], "missing counter %d", i)
	}
}

func TestPostgres_StockMovementsAreAppendOnly(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	tenantID := uuid.New()
	p := newTestProduct(t, tenantID, "Ciment", 100)
	require.NoError(t, NewGormProductRepository(db).Save(ctx, p))

	m, err := inventory.NewStockMovement(tenantID, inventory.MovementInput{
		ProductID:  p.ID,
		Type:       inventory.MovementInitial,
		Quantity:   p.InitialStock,
		OccurredAt: time.Now(),
		UserName:   inventory.SystemUser,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormStockMovementRepository(db).Create(ctx, m))

	err = db.Exec("UPDATE stock_movements SET reason = 'x' WHERE id = ?", m.ID).Error
	assert.Error(t, err)
	err = db.Exec("DELETE FROM stock_movements WHERE id = ?", m.ID).Error
	assert.Error(t, err)
}
