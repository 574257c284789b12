package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
)

func recordedEvent(t *testing.T, p *catalog.Product, previous, qty int64) *inventory.StockMovementRecordedEvent {
	t.Helper()
	m, err := inventory.NewStockMovement(testTenant, inventory.MovementInput{
		ProductID:     p.ID,
		Type:          inventory.MovementAdjustment,
		Quantity:      decimal.NewFromInt(qty),
		PreviousStock: decimal.NewFromInt(previous),
	})
	require.NoError(t, err)
	return inventory.NewStockMovementRecordedEvent(m)
}

func TestLowStockAlertHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("alerts when stock reaches the minimum", func(t *testing.T) {
		products := new(MockProductRepository)
		notifier := &recordingNotifier{}
		p := testProduct(t, 20, 10)
		products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)

		h := NewLowStockAlertHandler(products, notifier, nil)
		require.NoError(t, h.Handle(ctx, recordedEvent(t, p, 20, -10)))

		require.Len(t, notifier.alerts, 1)
		alert := notifier.alerts[0]
		assert.Equal(t, AlertLowStock, alert.AlertType)
		assert.Equal(t, "10", alert.CurrentStock)
		assert.Equal(t, "10", alert.MinStock)
		assert.Equal(t, "adjustment", alert.MovementType)
		assert.Equal(t, p.Name, alert.ProductName)
	})

	t.Run("out of stock at zero", func(t *testing.T) {
		products := new(MockProductRepository)
		notifier := &recordingNotifier{}
		p := testProduct(t, 3, 1)
		products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)

		h := NewLowStockAlertHandler(products, notifier, nil)
		require.NoError(t, h.Handle(ctx, recordedEvent(t, p, 3, -3)))

		require.Len(t, notifier.alerts, 1)
		assert.Equal(t, AlertOutOfStock, notifier.alerts[0].AlertType)
	})

	t.Run("above minimum stays quiet", func(t *testing.T) {
		products := new(MockProductRepository)
		notifier := &recordingNotifier{}
		p := testProduct(t, 50, 10)
		products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)

		h := NewLowStockAlertHandler(products, notifier, nil)
		require.NoError(t, h.Handle(ctx, recordedEvent(t, p, 50, -5)))
		assert.Empty(t, notifier.alerts)
	})

	t.Run("positive movement skips the lookup", func(t *testing.T) {
		products := new(MockProductRepository)
		notifier := &recordingNotifier{}
		p := testProduct(t, 2, 10)

		h := NewLowStockAlertHandler(products, notifier, nil)
		require.NoError(t, h.Handle(ctx, recordedEvent(t, p, 2, 1)))
		assert.Empty(t, notifier.alerts)
		products.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("notifier failure is not returned", func(t *testing.T) {
		products := new(MockProductRepository)
		notifier := &recordingNotifier{err: errors.New("smtp down")}
		p := testProduct(t, 5, 10)
		products.On("FindByIDForTenant", mock.Anything, testTenant, p.ID).Return(p, nil)

		h := NewLowStockAlertHandler(products, notifier, nil)
		assert.NoError(t, h.Handle(ctx, recordedEvent(t, p, 5, -1)))
		assert.Len(t, notifier.alerts, 1)
	})

	t.Run("unexpected event type", func(t *testing.T) {
		p := testProduct(t, 5, 10)
		h := NewLowStockAlertHandler(new(MockProductRepository), nil, nil)
		err := h.Handle(ctx, catalog.NewProductCreatedEvent(p))
		assert.Error(t, err)
	})
}

func TestLowStockAlertHandler_EventTypes(t *testing.T) {
	h := NewLowStockAlertHandler(new(MockProductRepository), nil, nil)
	assert.Equal(t, []string{inventory.EventTypeStockMovementRecorded}, h.EventTypes())
}
