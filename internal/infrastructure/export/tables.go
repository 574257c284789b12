package export

import (
	"strings"
	"time"
	"unicode"

	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/locale"
)

// StockHistoryHeader is the column set of a product history export
var StockHistoryHeader = []string{
	"Date", "Heure", "Type", "Quantité", "Stock Précédent", "Nouveau Stock", "Motif", "Référence", "Utilisateur",
}

// OrdersHeader is the column set of an order list export
var OrdersHeader = []string{
	"N° Commande", "Date", "Client", "Produits", "Quantité Total", "Total TTC", "Statut",
}

// StockHistoryTable lays out movements, already filtered and sorted, one per row
func StockHistoryTable(movements []inventory.StockMovement, f *locale.Formatter) Table {
	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []any{
			f.Date(m.OccurredAt),
			f.Time(m.OccurredAt),
			m.Type.Label(),
			m.Quantity,
			m.PreviousStock,
			m.NewStock,
			m.Reason,
			m.Reference,
			m.UserName,
		})
	}
	return Table{Sheet: "Historique", Header: StockHistoryHeader, Rows: rows}
}

// OrdersTable lays out one row per order. The total keeps two decimals and
// the status is the raw status code.
func OrdersTable(orders []trade.SalesOrder, f *locale.Formatter) Table {
	rows := make([][]any, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		rows = append(rows, []any{
			o.Number,
			f.Date(o.OrderDate),
			o.DisplayClientName(),
			o.ProductsSummary(),
			o.TotalQuantity(),
			o.TotalTTC.StringFixed(2),
			string(o.Status),
		})
	}
	return Table{Sheet: "Commandes", Header: OrdersHeader, Rows: rows}
}

// StockHistoryFilename is historique_<product>_<YYYY-MM-DD>.<ext>, with
// whitespace runs in the product name replaced by underscores
func StockHistoryFilename(p *catalog.Product, day time.Time, format Format) string {
	name := strings.Join(strings.FieldsFunc(p.Name, unicode.IsSpace), "_")
	return Filename("historique_"+name, day, format)
}

// OrdersFilename is commandes_<YYYY-MM-DD>.<ext>
func OrdersFilename(day time.Time, format Format) string {
	return Filename("commandes", day, format)
}
