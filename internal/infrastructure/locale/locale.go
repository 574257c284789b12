// Package locale formats amounts, quantities and dates for French-speaking
// Moroccan documents.
package locale

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is appended to formatted money amounts
const Currency = "MAD"

const (
	dateLayout     = "02/01/2006"
	timeLayout     = "15:04:05"
	dateTimeLayout = dateLayout + " " + timeLayout
)

// Formatter renders values the way fr-FR browsers do
type Formatter struct {
	printer  *message.Printer
	location *time.Location
}

// Option configures a Formatter
type Option func(*Formatter)

// WithLocation renders dates in loc instead of UTC
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.location = loc
		}
	}
}

// New creates a formatter for tag; language.Und falls back to French
func New(tag language.Tag, opts ...Option) *Formatter {
	if tag == language.Und {
		tag = language.French
	}
	f := &Formatter{
		printer:  message.NewPrinter(tag),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// French is the formatter used for documents and exports
func French(opts ...Option) *Formatter {
	return New(language.French, opts...)
}

// Number formats d with exactly scale decimals and locale grouping
func (f *Formatter) Number(d decimal.Decimal, scale int32) string {
	rounded := d.Round(scale)
	return f.printer.Sprint(number.Decimal(rounded.InexactFloat64(),
		number.Scale(int(scale))))
}

// Amount formats d with two decimals, e.g. "1 234,50"
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.Number(d, 2)
}

// Money formats d as an amount followed by the currency, e.g. "1 234,50 MAD"
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.Amount(d) + " " + Currency
}

// Quantity formats q with the precision of unit: three decimals for weighed
// units, none otherwise
func (f *Formatter) Quantity(q decimal.Decimal, unit string) string {
	return f.Number(q, catalog.QuantityScale(unit))
}

// QuantityWithUnit appends the unit to the formatted quantity
func (f *Formatter) QuantityWithUnit(q decimal.Decimal, unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return f.Quantity(q, unit)
	}
	return f.Quantity(q, unit) + " " + unit
}

// Date formats t as dd/mm/yyyy
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(f.location).Format(dateLayout)
}

// Time formats t as hh:mm:ss
func (f *Formatter) Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(f.location).Format(timeLayout)
}

// DateTime formats t as dd/mm/yyyy hh:mm:ss
func (f *Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(f.location).Format(dateTimeLayout)
}

// OptionalDate formats t or returns "-" when it is unset
func (f *Formatter) OptionalDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return f.Date(*t)
}

// YesNo renders a boolean as "Oui" or "Non"
func YesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}
