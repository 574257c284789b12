package finance

import "fmt"

// NumberingFormat selects how invoice numbers are written
type NumberingFormat string

const (
	NumberingYearCounter       NumberingFormat = "format1" // 2025-001
	NumberingPrefixYearCounter NumberingFormat = "format2" // FAC-2025-001
	NumberingCounterSlashYear  NumberingFormat = "format3" // 001/2025
	NumberingYearCounterPrefix NumberingFormat = "format4" // 2025/001-FAC
	NumberingPrefixCounterYear NumberingFormat = "format5" // FAC001-2025
)

// Defaults for companies that never configured numbering
const (
	DefaultInvoicePrefix                   = "FAC"
	DefaultNumberingFormat NumberingFormat = NumberingPrefixYearCounter
)

// IsValid checks if the format is known
func (f NumberingFormat) IsValid() bool {
	switch f {
	case NumberingYearCounter, NumberingPrefixYearCounter, NumberingCounterSlashYear,
		NumberingYearCounterPrefix, NumberingPrefixCounterYear:
		return true
	}
	return false
}

// FormatInvoiceNumber renders an invoice number; the counter is zero padded to 3 digits.
// Unknown formats fall back to format2.
func FormatInvoiceNumber(format NumberingFormat, prefix string, year, counter int) string {
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	c := fmt.Sprintf("%03d", counter)
	switch format {
	case NumberingYearCounter:
		return fmt.Sprintf("%d-%s", year, c)
	case NumberingCounterSlashYear:
		return fmt.Sprintf("%s/%d", c, year)
	case NumberingYearCounterPrefix:
		return fmt.Sprintf("%d/%s-%s", year, c, prefix)
	case NumberingPrefixCounterYear:
		return fmt.Sprintf("%s%s-%d", prefix, c, year)
	default:
		return fmt.Sprintf("%s-%d-%s", prefix, year, c)
	}
}
