package trade

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/shared"
)

// OrderLine is one priced line of a sales or purchase order.
// ProductID is the link to the catalog; ProductName is kept for display and
// may be nil on rows imported before products were linked by id.
type OrderLine struct {
	ID          uuid.UUID
	ProductID   *uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal // percent, e.g. 20
	Total       decimal.Decimal // quantity * unit price, tax excluded
}

// LineInput describes a line to add to an order
type LineInput struct {
	ProductID   *uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal
}

// NewOrderLine validates the input and computes the line total
func NewOrderLine(in LineInput) (OrderLine, error) {
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return OrderLine{}, shared.NewDomainError("INVALID_ITEM", "Product name cannot be empty")
	}
	if !in.Quantity.IsPositive() {
		return OrderLine{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return OrderLine{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.VATRate.IsNegative() || in.VATRate.GreaterThan(decimal.NewFromInt(100)) {
		return OrderLine{}, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}

	return OrderLine{
		ID:          uuid.New(),
		ProductID:   in.ProductID,
		ProductName: name,
		Quantity:    in.Quantity,
		Unit:        strings.TrimSpace(in.Unit),
		UnitPrice:   in.UnitPrice,
		VATRate:     in.VATRate,
		Total:       shared.RoundMoney(in.Quantity.Mul(in.UnitPrice)),
	}, nil
}

func newOrderLines(inputs []LineInput) ([]OrderLine, error) {
	lines := make([]OrderLine, 0, len(inputs))
	for i, in := range inputs {
		line, err := NewOrderLine(in)
		if err != nil {
			if de, ok := shared.AsDomainError(err); ok {
				return nil, shared.NewDomainError(de.Code, de.Message+" (line "+strconv.Itoa(i+1)+")")
			}
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Totals holds the computed amounts of an order
type Totals struct {
	Subtotal decimal.Decimal
	TotalVAT decimal.Decimal
	TotalTTC decimal.Decimal
}

// ComputeTotals sums lines; VAT is only charged when applyVAT is set
func ComputeTotals(lines []OrderLine, applyVAT bool) Totals {
	subtotal := decimal.Zero
	vat := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
		if applyVAT {
			vat = vat.Add(shared.ApplyRate(l.Total, l.VATRate))
		}
	}
	subtotal = shared.RoundMoney(subtotal)
	vat = shared.RoundMoney(vat)
	return Totals{
		Subtotal: subtotal,
		TotalVAT: vat,
		TotalTTC: subtotal.Add(vat),
	}
}

// TotalQuantity sums the quantities of all lines
func TotalQuantity(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Quantity)
	}
	return total
}

// QuantitiesByProduct aggregates linked line quantities per product id
func QuantitiesByProduct(lines []OrderLine) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, l := range lines {
		if l.ProductID == nil {
			continue
		}
		out[*l.ProductID] = out[*l.ProductID].Add(l.Quantity)
	}
	return out
}
