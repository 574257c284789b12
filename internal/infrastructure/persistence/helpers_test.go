package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database with every table migrated.
// One connection only, so the whole test sees the same memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig(gormlogger.Default.LogMode(gormlogger.Silent)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newMockDB returns a gorm postgres handle backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), gormConfig(gormlogger.Default.LogMode(gormlogger.Silent)))
	require.NoError(t, err)
	return db, mock
}

func newTestProduct(t *testing.T, tenantID uuid.UUID, name string, initial int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, catalog.ProductInput{
		Name:          name,
		Category:      "Matériaux",
		Unit:          "sac",
		PurchasePrice: decimal.NewFromInt(40),
		SalePrice:     decimal.NewFromInt(55),
		MinStock:      decimal.NewFromInt(10),
	}, decimal.NewFromInt(initial))
	require.NoError(t, err)
	return p
}

func newTestOrder(t *testing.T, tenantID uuid.UUID, number string, lines ...trade.LineInput) *trade.SalesOrder {
	t.Helper()
	o, err := trade.NewSalesOrder(tenantID, number, trade.OrderHeader{
		ClientName: "Karim Benali",
		ClientType: trade.ClientTypeIndividual,
	}, lines)
	require.NoError(t, err)
	return o
}

func lineFor(p *catalog.Product, qty int64) trade.LineInput {
	id := p.ID
	return trade.LineInput{
		ProductID:   &id,
		ProductName: p.Name,
		Quantity:    decimal.NewFromInt(qty),
		Unit:        p.Unit,
		UnitPrice:   p.SalePrice,
		VATRate:     decimal.NewFromInt(20),
	}
}
