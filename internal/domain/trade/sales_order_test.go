package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func createTestOrder(t *testing.T, applyVAT bool) *SalesOrder {
	t.Helper()
	order, err := NewSalesOrder(uuid.New(), "CMD-2025-00001", OrderHeader{
		ClientName: "Ahmed",
		ClientType: ClientTypeIndividual,
		ApplyVAT:   applyVAT,
	}, []LineInput{
		{ProductID: ptr(uuid.New()), ProductName: "Ciment", Quantity: decimal.NewFromInt(20), Unit: "sac", UnitPrice: decimal.NewFromInt(75), VATRate: decimal.NewFromInt(20)},
		{ProductID: ptr(uuid.New()), ProductName: "Sable", Quantity: decimal.NewFromFloat(1.5), Unit: "t", UnitPrice: decimal.NewFromInt(200), VATRate: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	return order
}

func TestOrderStatus(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		valid    bool
		isTarget bool
		label    string
	}{
		{OrderStatusPending, true, false, "En attente"},
		{OrderStatusInDelivery, true, true, "En cours"},
		{OrderStatusDelivered, true, true, "Livré"},
		{OrderStatusCancelled, true, true, "Annulé"},
		{OrderStatus("shipped"), false, false, "shipped"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.isTarget, tt.status.IsTarget())
			assert.Equal(t, tt.label, tt.status.Label())
		})
	}
}

func TestNewSalesOrder(t *testing.T) {
	t.Run("computes totals with VAT", func(t *testing.T) {
		order := createTestOrder(t, true)

		assert.Equal(t, OrderStatusInDelivery, order.Status)
		assert.False(t, order.StockDebited)
		assert.Equal(t, "1800", order.Subtotal.String())
		assert.Equal(t, "330", order.TotalVAT.String())
		assert.Equal(t, "2130", order.TotalTTC.String())
		assert.Equal(t, "21.5", order.TotalQuantity().String())
		require.Len(t, order.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeSalesOrderCreated, order.GetDomainEvents()[0].EventType())
	})

	t.Run("ignores VAT when not applied", func(t *testing.T) {
		order := createTestOrder(t, false)
		assert.True(t, order.TotalVAT.IsZero())
		assert.True(t, order.TotalTTC.Equal(order.Subtotal))
	})

	t.Run("company order requires client", func(t *testing.T) {
		_, err := NewSalesOrder(uuid.New(), "CMD-1", OrderHeader{ClientType: ClientTypeCompany},
			[]LineInput{{ProductName: "X", Quantity: decimal.NewFromInt(1)}})
		assert.ErrorContains(t, err, "requires a client")
	})

	t.Run("rejects empty items and bad quantity", func(t *testing.T) {
		_, err := NewSalesOrder(uuid.New(), "CMD-1", OrderHeader{ClientType: ClientTypeIndividual}, nil)
		assert.ErrorContains(t, err, "at least one item")

		_, err = NewSalesOrder(uuid.New(), "CMD-1", OrderHeader{ClientType: ClientTypeIndividual},
			[]LineInput{{ProductName: "X", Quantity: decimal.Zero}})
		assert.ErrorContains(t, err, "Quantity must be positive (line 1)")
	})
}

func TestSalesOrder_TransitionTo(t *testing.T) {
	t.Run("delivery debits once", func(t *testing.T) {
		order := createTestOrder(t, false)

		effect, err := order.TransitionTo(OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, EffectDebit, effect)
		assert.True(t, order.StockDebited)
		assert.NotNil(t, order.DeliveryDate)

		effect, err = order.TransitionTo(OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, EffectNone, effect)
	})

	t.Run("cancel after delivery returns stock once", func(t *testing.T) {
		order := createTestOrder(t, false)
		_, err := order.TransitionTo(OrderStatusDelivered)
		require.NoError(t, err)

		effect, err := order.TransitionTo(OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, EffectReturn, effect)
		assert.False(t, order.StockDebited)

		effect, err = order.TransitionTo(OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, EffectNone, effect)
	})

	t.Run("cancel of undelivered order has no effect", func(t *testing.T) {
		order := createTestOrder(t, false)
		effect, err := order.TransitionTo(OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, EffectNone, effect)
		assert.Equal(t, OrderStatusCancelled, order.Status)
	})

	t.Run("back to delivery undoes the debit", func(t *testing.T) {
		order := createTestOrder(t, false)
		_, _ = order.TransitionTo(OrderStatusDelivered)

		effect, err := order.TransitionTo(OrderStatusInDelivery)
		require.NoError(t, err)
		assert.Equal(t, EffectReturn, effect)

		effect, err = order.TransitionTo(OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, EffectDebit, effect)
	})

	t.Run("cancelled to in delivery has no effect", func(t *testing.T) {
		order := createTestOrder(t, false)
		_, _ = order.TransitionTo(OrderStatusDelivered)
		_, _ = order.TransitionTo(OrderStatusCancelled)

		effect, err := order.TransitionTo(OrderStatusInDelivery)
		require.NoError(t, err)
		assert.Equal(t, EffectNone, effect)
	})

	t.Run("legacy pending is not a target", func(t *testing.T) {
		order := createTestOrder(t, false)
		_, err := order.TransitionTo(OrderStatusPending)
		assert.ErrorContains(t, err, "Cannot move order")
		assert.Equal(t, OrderStatusInDelivery, order.Status)
	})

	t.Run("emits status changed events only on change", func(t *testing.T) {
		order := createTestOrder(t, false)
		order.ClearDomainEvents()
		_, _ = order.TransitionTo(OrderStatusDelivered)
		_, _ = order.TransitionTo(OrderStatusDelivered)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		e, ok := events[0].(*SalesOrderStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusInDelivery, e.From)
		assert.Equal(t, OrderStatusDelivered, e.To)
		assert.Equal(t, EffectDebit, e.Effect)
	})
}

func TestSalesOrder_ReplaceItems(t *testing.T) {
	order := createTestOrder(t, false)
	require.NoError(t, order.ReplaceItems([]LineInput{{ProductName: "Brique", Quantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromFloat(1.2)}}))
	assert.Equal(t, "120", order.TotalTTC.String())

	_, _ = order.TransitionTo(OrderStatusDelivered)
	err := order.ReplaceItems([]LineInput{{ProductName: "Brique", Quantity: decimal.NewFromInt(1)}})
	assert.ErrorContains(t, err, "delivered order")
}

func TestSalesOrder_Display(t *testing.T) {
	order := createTestOrder(t, false)
	assert.Equal(t, "Ahmed", order.DisplayClientName())
	assert.Equal(t, "2 articles", order.ProductsSummary())
	assert.Len(t, order.ProductIDs(), 2)

	order.ClientName = ""
	assert.Equal(t, "Client particulier", order.DisplayClientName())
	order.ClientType = ClientTypeCompany
	assert.Equal(t, "Client société", order.DisplayClientName())

	order.Items = order.Items[:1]
	assert.Equal(t, "Ciment", order.ProductsSummary())
}

func TestQuantitiesByProduct(t *testing.T) {
	id := uuid.New()
	lines := []OrderLine{
		{ProductID: &id, Quantity: decimal.NewFromInt(2)},
		{ProductID: &id, Quantity: decimal.NewFromInt(3)},
		{ProductID: nil, Quantity: decimal.NewFromInt(7)},
	}
	q := QuantitiesByProduct(lines)
	require.Len(t, q, 1)
	assert.Equal(t, "5", q[id].String())
}
