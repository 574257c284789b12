package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/trade"
)

// CurrentStock computes the quantity on hand of a product:
//
//	initialStock + Σ adjustments − Σ quantities of delivered (livre) order lines
//
// Order lines are matched on product id. Order movements are ignored: the
// status alone decides consumption. A nil product has no stock.
func CurrentStock(product *catalog.Product, movements []StockMovement, orders []trade.SalesOrder) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	return product.InitialStock.
		Add(AdjustmentTotal(product.ID, movements)).
		Sub(DeliveredQuantity(product.ID, orders))
}

// AdjustmentTotal sums the signed adjustment quantities of a product
func AdjustmentTotal(productID uuid.UUID, movements []StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m.ProductID == productID && m.Type == MovementAdjustment {
			total = total.Add(m.Quantity)
		}
	}
	return total
}

// DeliveredQuantity sums the lines linked to productID across delivered orders
func DeliveredQuantity(productID uuid.UUID, orders []trade.SalesOrder) decimal.Decimal {
	total := decimal.Zero
	for i := range orders {
		if !orders[i].IsDelivered() {
			continue
		}
		for _, line := range orders[i].Items {
			if line.ProductID != nil && *line.ProductID == productID {
				total = total.Add(line.Quantity)
			}
		}
	}
	return total
}

// MovementsForEffect builds the order movements for a transition effect,
// one per linked product. stocks holds the quantity before the movement and
// is advanced in place so that several movements chain correctly.
func MovementsForEffect(
	order *trade.SalesOrder,
	effect trade.StockEffect,
	stocks map[uuid.UUID]decimal.Decimal,
	userName string,
	at time.Time,
) ([]*StockMovement, error) {
	var (
		mtype MovementType
		sign  decimal.Decimal
	)
	switch effect {
	case trade.EffectDebit:
		mtype, sign = MovementOrderOut, decimal.NewFromInt(-1)
	case trade.EffectReturn:
		mtype, sign = MovementOrderCancelReturn, decimal.NewFromInt(1)
	default:
		return nil, nil
	}

	quantities := trade.QuantitiesByProduct(order.Items)
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	orderID := order.ID
	snapshot := SnapshotOf(order)
	movements := make([]*StockMovement, 0, len(ids))
	for _, productID := range ids {
		qty := quantities[productID]
		if qty.IsZero() {
			continue
		}
		m, err := NewStockMovement(order.TenantID, MovementInput{
			ProductID:     productID,
			Type:          mtype,
			Quantity:      qty.Mul(sign),
			PreviousStock: stocks[productID],
			OccurredAt:    at,
			UserName:      userName,
			Reference:     order.Number,
			OrderID:       &orderID,
			OrderDetails:  snapshot,
		})
		if err != nil {
			return nil, err
		}
		stocks[productID] = m.NewStock
		movements = append(movements, m)
	}
	return movements, nil
}
