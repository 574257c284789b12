package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/trade"
)

func TestBuildHistory(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	product := newProduct(t, "Ciment", 50)
	product.CreatedAt = now.Add(-200 * 24 * time.Hour)

	orderID := uuid.New()
	out, err := NewStockMovement(tenantID, MovementInput{
		ProductID: product.ID, Type: MovementOrderOut, Quantity: decimal.NewFromInt(-4),
		OccurredAt: now.Add(-2 * 24 * time.Hour), OrderID: &orderID,
	})
	require.NoError(t, err)

	movements := []StockMovement{
		adjustment(t, product.ID, 3, now.Add(-20*24*time.Hour)),
		*out,
		adjustment(t, product.ID, -1, now.Add(-60*24*time.Hour)),
		adjustment(t, uuid.New(), 99, now),
	}

	t.Run("all entries newest first with synthetic initial", func(t *testing.T) {
		h := BuildHistory(product, movements, HistoryQuery{Period: PeriodAll, Type: HistoryAll, Now: now})
		require.Len(t, h, 4)
		assert.Equal(t, MovementOrderOut, h[0].Type)
		assert.Equal(t, MovementInitial, h[3].Type)
		assert.Equal(t, "50", h[3].NewStock.String())
		for i := 1; i < len(h); i++ {
			assert.False(t, h[i].OccurredAt.After(h[i-1].OccurredAt))
		}
	})

	t.Run("period filters", func(t *testing.T) {
		assert.Len(t, BuildHistory(product, movements, HistoryQuery{Period: PeriodWeek, Now: now}), 1)
		assert.Len(t, BuildHistory(product, movements, HistoryQuery{Period: PeriodMonth, Now: now}), 2)
		assert.Len(t, BuildHistory(product, movements, HistoryQuery{Period: PeriodQuarter, Now: now}), 3)
	})

	t.Run("type filters", func(t *testing.T) {
		assert.Len(t, BuildHistory(product, movements, HistoryQuery{Type: HistoryOrders, Now: now}), 1)
		assert.Len(t, BuildHistory(product, movements, HistoryQuery{Type: HistoryAdjustments, Now: now}), 2)
		initial := BuildHistory(product, movements, HistoryQuery{Type: HistoryInitial, Now: now})
		require.Len(t, initial, 1)
		assert.Equal(t, SystemUser, initial[0].UserName)
	})

	t.Run("recorded initial movement is not duplicated", func(t *testing.T) {
		initial, err := NewStockMovement(tenantID, MovementInput{
			ProductID: product.ID, Type: MovementInitial, Quantity: decimal.NewFromInt(50), OccurredAt: product.CreatedAt,
		})
		require.NoError(t, err)
		h := BuildHistory(product, append([]StockMovement{*initial}, movements...), HistoryQuery{Type: HistoryInitial, Now: now})
		assert.Len(t, h, 1)
	})
}

func TestSummarize(t *testing.T) {
	product := newProduct(t, "Ciment", 100)
	movements := []StockMovement{
		adjustment(t, product.ID, -5, time.Now()),
		adjustment(t, product.ID, 2, time.Now()),
	}
	orders := []trade.SalesOrder{
		orderWith(t, product.ID, "Ciment", 20, trade.OrderStatusDelivered),
		orderWith(t, product.ID, "Ciment", 8, trade.OrderStatusCancelled),
	}

	s := Summarize(product, movements, orders)
	assert.Equal(t, "100", s.InitialStock.String())
	assert.Equal(t, "20", s.TotalOrdersSold.String())
	assert.Equal(t, "-3", s.TotalAdjustments.String())
	assert.Equal(t, "77", s.CurrentStock.String())
}

func TestReconcile(t *testing.T) {
	now := time.Now()
	clean := newProduct(t, "Clean", 10)
	drifted := newProduct(t, "Drifted", 10)
	drifted.Stock = decimal.NewFromInt(12)

	delivered := orderWith(t, clean.ID, "Clean", 4, trade.OrderStatusDelivered)
	clean.Stock = decimal.NewFromInt(6)

	legacy := orderWith(t, drifted.ID, "Drifted", 1, trade.OrderStatusInDelivery)
	legacy.Status = trade.OrderStatusDelivered

	unlinked := orderWith(t, clean.ID, "Clean", 1, trade.OrderStatusCancelled)
	unlinked.Items[0].ProductID = nil
	unlinked.Status = trade.OrderStatusDelivered
	unlinked.StockDebited = true

	report := Reconcile(
		[]catalog.Product{*clean, *drifted},
		nil,
		[]trade.SalesOrder{delivered, legacy, unlinked},
		now,
	)

	assert.False(t, report.Consistent())
	assert.Equal(t, 2, report.CheckedProducts)
	assert.Equal(t, 3, report.CheckedOrders)
	require.Len(t, report.Products, 1)
	assert.Equal(t, drifted.ID, report.Products[0].ProductID)
	assert.Equal(t, "9", report.Products[0].LedgerStock.String())
	assert.Equal(t, "3", report.Products[0].Difference.String())
	require.Len(t, report.Orders, 1)
	assert.Equal(t, legacy.ID, report.Orders[0].OrderID)
	assert.Equal(t, 1, report.UnlinkedLines)
}

func TestReconcile_Consistent(t *testing.T) {
	p := newProduct(t, "Ciment", 10)
	report := Reconcile([]catalog.Product{*p}, nil, nil, time.Now())
	assert.True(t, report.Consistent())
	assert.NotNil(t, report.Products)
}
