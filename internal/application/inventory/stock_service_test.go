package inventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
)

var testTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type stockFixture struct {
	products  *MockProductRepository
	movements *MockMovementRepository
	orders    *MockSalesOrderRepository
	publisher *MockEventPublisher
	ledger    *recordingLedger
	service   *StockService
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	f := &stockFixture{
		products:  new(MockProductRepository),
		movements: new(MockMovementRepository),
		orders:    new(MockSalesOrderRepository),
		publisher: &MockEventPublisher{},
		ledger:    &recordingLedger{},
	}
	scope := NewNoOpTransactionScope(f.products, f.movements, f.orders)
	f.service = NewStockService(f.products, f.movements, f.orders, scope, nil)
	f.service.SetEventPublisher(f.publisher)
	f.service.SetLedgerRecorder(f.ledger)
	f.service.now = func() time.Time { return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC) }
	return f
}

func testProduct(t *testing.T, initial, minStock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(testTenant, catalog.ProductInput{
		Name:          "Ciment CPJ 45",
		Unit:          "sac",
		PurchasePrice: decimal.NewFromInt(40),
		SalePrice:     decimal.NewFromInt(55),
		MinStock:      decimal.NewFromInt(minStock),
	}, decimal.NewFromInt(initial))
	require.NoError(t, err)
	return p
}

func adjustmentOf(t *testing.T, p *catalog.Product, qty int64, at time.Time) inventory.StockMovement {
	t.Helper()
	m, err := inventory.NewStockMovement(testTenant, inventory.MovementInput{
		ProductID:  p.ID,
		Type:       inventory.MovementAdjustment,
		Quantity:   decimal.NewFromInt(qty),
		OccurredAt: at,
		Reason:     "Inventaire",
	})
	require.NoError(t, err)
	return *m
}

func deliveredOrder(t *testing.T, p *catalog.Product, qty int64) trade.SalesOrder {
	t.Helper()
	id := p.ID
	o, err := trade.NewSalesOrder(testTenant, "CMD-2025-00001", trade.OrderHeader{
		ClientName: "Karim",
		ClientType: trade.ClientTypeIndividual,
	}, []trade.LineInput{{ProductID: &id, ProductName: p.Name, Quantity: decimal.NewFromInt(qty), UnitPrice: p.SalePrice}})
	require.NoError(t, err)
	_, err = o.TransitionTo(trade.OrderStatusDelivered)
	require.NoError(t, err)
	return *o
}

func TestStockService_Adjust(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	p := testProduct(t, 100, 10)

	f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
	f.movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
		return m.Type == inventory.MovementAdjustment &&
			m.PreviousStock.Equal(decimal.NewFromInt(100)) &&
			m.NewStock.Equal(decimal.NewFromInt(93)) &&
			m.UserName == "Amina"
	})).Return(nil)
	f.products.On("Save", mock.Anything, p).Return(nil)

	resp, err := f.service.Adjust(ctx, testTenant, p.ID, AdjustStockRequest{
		Quantity: decimal.NewFromInt(-7),
		Reason:   "Casse",
	}, "Amina")
	require.NoError(t, err)

	assert.Equal(t, "Rectification", resp.TypeLabel)
	assert.Equal(t, "Casse", resp.Reason)
	assert.True(t, resp.NewStock.Equal(decimal.NewFromInt(93)))
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(93)))
	assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockMovementRecorded), 1)
	assert.Equal(t, []string{"adjustment"}, f.ledger.movements)
	f.movements.AssertExpectations(t)
	f.products.AssertExpectations(t)
}

func TestStockService_Adjust_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown product", func(t *testing.T) {
		f := newStockFixture(t)
		id := uuid.New()
		f.products.On("FindByIDForTenant", mock.Anything, testTenant, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Adjust(ctx, testTenant, id, AdjustStockRequest{Quantity: decimal.NewFromInt(1)}, "")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newStockFixture(t)
		p := testProduct(t, 5, 0)
		f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)

		_, err := f.service.Adjust(ctx, testTenant, p.ID, AdjustStockRequest{Quantity: decimal.Zero}, "")
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_QUANTITY", de.Code)
		assert.Empty(t, f.publisher.GetEventsByType(inventory.EventTypeStockMovementRecorded))
	})

	t.Run("movement write fails", func(t *testing.T) {
		f := newStockFixture(t)
		p := testProduct(t, 5, 0)
		f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
		f.movements.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := f.service.Adjust(ctx, testTenant, p.ID, AdjustStockRequest{Quantity: decimal.NewFromInt(2)}, "")
		assert.EqualError(t, err, "disk full")
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.ledger.movements)
	})
}

func TestStockService_CurrentStock(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	p := testProduct(t, 100, 80)
	now := time.Now()

	f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
	f.movements.On("FindByProduct", mock.Anything, testTenant, p.ID).
		Return([]inventory.StockMovement{adjustmentOf(t, p, 10, now), adjustmentOf(t, p, -4, now)}, nil)
	f.orders.On("FindDeliveredByProduct", mock.Anything, testTenant, p.ID).
		Return([]trade.SalesOrder{deliveredOrder(t, p, 30)}, nil)

	resp, err := f.service.CurrentStock(ctx, testTenant, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "76", resp.CurrentStock.String())
	assert.Equal(t, "100", resp.CachedStock.String())
	assert.True(t, resp.IsLowStock)
}

func TestStockService_History(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	p := testProduct(t, 50, 5)
	now := f.service.now()

	old := adjustmentOf(t, p, 3, now.Add(-40*24*time.Hour))
	recent := adjustmentOf(t, p, -2, now.Add(-2*24*time.Hour))
	f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
	f.movements.On("FindByProduct", mock.Anything, testTenant, p.ID).Return([]inventory.StockMovement{old, recent}, nil)
	f.orders.On("FindDeliveredByProduct", mock.Anything, testTenant, p.ID).Return([]trade.SalesOrder{}, nil)

	resp, err := f.service.History(ctx, testTenant, p.ID, HistoryFilter{Period: "week", Type: "adjustments"})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 1)
	assert.Equal(t, recent.ID, resp.Movements[0].ID)
	assert.Equal(t, "51", resp.Summary.CurrentStock.String())
	assert.Equal(t, "1", resp.Summary.TotalAdjustments.String())
	assert.Equal(t, "51", resp.Stock.CurrentStock.String())
}

func TestStockService_ExportHistory(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	p := testProduct(t, 50, 5)

	f.products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)
	f.movements.On("FindByProduct", mock.Anything, testTenant, p.ID).
		Return([]inventory.StockMovement{adjustmentOf(t, p, -2, f.service.now())}, nil)
	f.orders.On("FindDeliveredByProduct", mock.Anything, testTenant, p.ID).Return([]trade.SalesOrder{}, nil)

	file, err := f.service.ExportHistory(ctx, testTenant, p.ID, HistoryFilter{Type: "adjustments"})
	require.NoError(t, err)
	assert.Equal(t, "historique_Ciment_CPJ_45_2025-03-10.csv", file.Name)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Rectification", records[1][2])
	assert.Equal(t, "-2", records[1][3])

	_, err = f.service.ExportHistory(ctx, testTenant, p.ID, HistoryFilter{Format: "pdf"})
	assert.Error(t, err)
}

func TestStockService_Reconcile(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	p := testProduct(t, 100, 5)
	order := deliveredOrder(t, p, 30)
	// cache never updated and flag cleared: both must be reported
	order.StockDebited = false

	f.products.On("FindAllForTenant", mock.Anything, testTenant, shared.Filter{}).Return([]catalog.Product{*p}, nil)
	f.movements.On("FindByTypes", mock.Anything, testTenant, []inventory.MovementType{inventory.MovementAdjustment}).
		Return([]inventory.StockMovement{}, nil)
	f.orders.On("FindAllForTenant", mock.Anything, testTenant, shared.Filter{}).Return([]trade.SalesOrder{order}, nil)

	report, err := f.service.Reconcile(ctx, testTenant)
	require.NoError(t, err)
	assert.False(t, report.Consistent())
	require.Len(t, report.Products, 1)
	assert.Equal(t, "70", report.Products[0].LedgerStock.String())
	require.Len(t, report.Orders, 1)
	assert.Equal(t, order.ID, report.Orders[0].OrderID)
}

func TestStockService_RebuildCache(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	drifting := testProduct(t, 100, 5)
	consistent := testProduct(t, 20, 5)
	order := deliveredOrder(t, drifting, 30)

	f.products.On("FindAllForTenant", mock.Anything, testTenant, shared.Filter{}).
		Return([]catalog.Product{*drifting, *consistent}, nil)
	f.movements.On("FindByTypes", mock.Anything, testTenant, []inventory.MovementType{inventory.MovementAdjustment}).
		Return([]inventory.StockMovement{}, nil)
	f.orders.On("FindByStatus", mock.Anything, testTenant, trade.OrderStatusDelivered).
		Return([]trade.SalesOrder{order}, nil)
	f.products.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.ID == drifting.ID && p.Stock.Equal(decimal.NewFromInt(70))
	})).Return(nil).Once()

	resp, err := f.service.RebuildCache(ctx, testTenant)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Checked)
	require.Len(t, resp.Updated, 1)
	assert.Equal(t, "30", resp.Updated[0].Difference.String())
	f.products.AssertExpectations(t)
}
