package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tijara/backend/internal/domain/catalog"
	"github.com/tijara/backend/internal/domain/inventory"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/locale"
	"github.com/xuri/excelize/v2"
)

func newOrder(t *testing.T, clientName string, lines ...trade.LineInput) trade.SalesOrder {
	t.Helper()
	o, err := trade.NewSalesOrder(uuid.New(), "CMD-2025-00001", trade.OrderHeader{
		ClientName: clientName,
		ClientType: trade.ClientTypeIndividual,
		OrderDate:  time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
	}, lines)
	require.NoError(t, err)
	return *o
}

func line(name string, qty, price int64) trade.LineInput {
	return trade.LineInput{
		ProductName: name,
		Quantity:    decimal.NewFromInt(qty),
		Unit:        "sac",
		UnitPrice:   decimal.NewFromInt(price),
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_EXPORT_FORMAT", de.Code)

	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
}

func TestOrdersTable_CSV(t *testing.T) {
	orders := []trade.SalesOrder{
		newOrder(t, "Smith, Inc.", line("Ciment CPJ45", 10, 55)),
		newOrder(t, "", line("Sable", 2, 100), line("Gravette", 3, 80)),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, OrdersTable(orders, locale.French())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, OrdersHeader, records[0])
	assert.Equal(t, []string{"CMD-2025-00001", "10/03/2025", "Smith, Inc.", "Ciment CPJ45", "10", "550.00", "en_cours_livraison"}, records[1])
	assert.Equal(t, "Client particulier", records[2][2])
	assert.Equal(t, "2 articles", records[2][3])
	assert.Equal(t, "5", records[2][4])
	assert.Equal(t, "440.00", records[2][5])
}

func TestStockHistoryTable_CSV(t *testing.T) {
	productID := uuid.New()
	orderID := uuid.New()
	at := time.Date(2025, 3, 10, 14, 5, 9, 0, time.UTC)
	out, err := inventory.NewStockMovement(uuid.New(), inventory.MovementInput{
		ProductID:     productID,
		Type:          inventory.MovementOrderOut,
		Quantity:      decimal.NewFromInt(-4),
		PreviousStock: decimal.NewFromInt(20),
		OccurredAt:    at,
		UserName:      "Amina",
		Reference:     "CMD-2025-00007",
		OrderID:       &orderID,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, StockHistoryTable([]inventory.StockMovement{*out}, locale.French())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, StockHistoryHeader, records[0])
	assert.Equal(t, []string{
		"10/03/2025", "14:05:09", "Commande livrée", "-4", "20", "16", "Commande livrée", "CMD-2025-00007", "Amina",
	}, records[1])
}

func TestWriteXLSX(t *testing.T) {
	orders := []trade.SalesOrder{newOrder(t, "Karim", line("Ciment", 3, 50))}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, OrdersTable(orders, locale.French())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Commandes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, OrdersHeader, rows[0])
	assert.Equal(t, "Karim", rows[1][2])
	assert.Equal(t, "3", rows[1][4])
	assert.Equal(t, "150.00", rows[1][5])
}

func TestFilenames(t *testing.T) {
	day := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	p := &catalog.Product{Name: "Ciment  CPJ 45"}

	assert.Equal(t, "historique_Ciment_CPJ_45_2025-03-10.csv", StockHistoryFilename(p, day, FormatCSV))
	assert.Equal(t, "commandes_2025-03-10.xlsx", OrdersFilename(day, FormatXLSX))
}

func TestRender(t *testing.T) {
	orders := []trade.SalesOrder{newOrder(t, "Smith, Inc.", line("Ciment", 3, 50))}

	file, err := Render(FormatCSV, OrdersTable(orders, locale.French()), "commandes.csv")
	require.NoError(t, err)
	assert.Equal(t, "commandes.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Contains(t, string(file.Data), `"Smith, Inc."`)
}
