package catalog

import "strings"

// weighted units are displayed with three decimals
var weightedUnits = map[string]struct{}{
	"kg":          {},
	"kilogramme":  {},
	"kilogrammes": {},
	"l":           {},
	"litre":       {},
	"litres":      {},
	"t":           {},
	"tonne":       {},
	"tonnes":      {},
	"ton":         {},
}

// QuantityScale returns the number of decimals used to display a quantity in unit
func QuantityScale(unit string) int32 {
	if _, ok := weightedUnits[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return 3
	}
	return 0
}
