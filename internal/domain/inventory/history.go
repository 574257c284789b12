package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/trade"
)

// HistoryPeriod limits history to a trailing window
type HistoryPeriod string

const (
	PeriodAll     HistoryPeriod = "all"
	PeriodWeek    HistoryPeriod = "week"
	PeriodMonth   HistoryPeriod = "month"
	PeriodQuarter HistoryPeriod = "quarter"
)

// Since returns the start of the window ending at now, or zero for PeriodAll
func (p HistoryPeriod) Since(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		return now.Add(-30 * 24 * time.Hour)
	case PeriodQuarter:
		return now.Add(-90 * 24 * time.Hour)
	}
	return time.Time{}
}

// HistoryType selects movement kinds
type HistoryType string

const (
	HistoryAll         HistoryType = "all"
	HistoryOrders      HistoryType = "orders"
	HistoryAdjustments HistoryType = "adjustments"
	HistoryInitial     HistoryType = "initial"
)

func (h HistoryType) matches(t MovementType) bool {
	switch h {
	case HistoryOrders:
		return t.IsOrderMovement()
	case HistoryAdjustments:
		return t == MovementAdjustment
	case HistoryInitial:
		return t == MovementInitial
	}
	return true
}

// HistoryQuery filters a product history
type HistoryQuery struct {
	Period HistoryPeriod
	Type   HistoryType
	Now    time.Time
}

// HistorySummary is the header shown above a product history
type HistorySummary struct {
	InitialStock     decimal.Decimal `json:"initial_stock"`
	TotalOrdersSold  decimal.Decimal `json:"total_orders_sold"`
	TotalAdjustments decimal.Decimal `json:"total_adjustments"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
}

// Summarize computes the history header from the same inputs as CurrentStock
func Summarize(product *catalog.Product, movements []StockMovement, orders []trade.SalesOrder) HistorySummary {
	if product == nil {
		return HistorySummary{}
	}
	return HistorySummary{
		InitialStock:     product.InitialStock,
		TotalOrdersSold:  DeliveredQuantity(product.ID, orders),
		TotalAdjustments: AdjustmentTotal(product.ID, movements),
		CurrentStock:     CurrentStock(product, movements, orders),
	}
}

// BuildHistory returns the product's movements, newest first, filtered by q.
// Products created before initial movements were recorded get a synthetic
// initial entry dated at product creation.
func BuildHistory(product *catalog.Product, movements []StockMovement, q HistoryQuery) []StockMovement {
	if product == nil {
		return nil
	}
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	entries := make([]StockMovement, 0, len(movements)+1)
	hasInitial := false
	for _, m := range movements {
		if m.ProductID != product.ID {
			continue
		}
		if m.Type == MovementInitial {
			hasInitial = true
		}
		entries = append(entries, m)
	}
	if !hasInitial && product.InitialStock.IsPositive() {
		entries = append(entries, syntheticInitial(product))
	}

	since := q.Period.Since(now)
	filtered := entries[:0]
	for _, m := range entries {
		if !since.IsZero() && m.OccurredAt.Before(since) {
			continue
		}
		if !q.Type.matches(m.Type) {
			continue
		}
		filtered = append(filtered, m)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].OccurredAt.After(filtered[j].OccurredAt)
	})
	return filtered
}

func syntheticInitial(product *catalog.Product) StockMovement {
	return StockMovement{
		BaseEntity:    product.BaseEntity,
		TenantID:      product.TenantID,
		ProductID:     product.ID,
		Type:          MovementInitial,
		Quantity:      product.InitialStock,
		PreviousStock: decimal.Zero,
		NewStock:      product.InitialStock,
		OccurredAt:    product.CreatedAt,
		Reason:        MovementInitial.Label(),
		UserName:      SystemUser,
	}
}
