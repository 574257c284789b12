package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductBackfill links legacy sales order lines to products by name
type ProductBackfill struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProductBackfill creates a new ProductBackfill
func NewProductBackfill(db *gorm.DB, logger *zap.Logger) *ProductBackfill {
	return &ProductBackfill{db: db, logger: logger}
}

type unlinkedLine struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	OrderNumber string
	ProductName string
}

// LinkProducts sets product_id on every line without one whose trimmed,
// lower-cased name matches exactly one product of the tenant. Other lines
// are flagged with product_link_status = 'unresolved'.
func (b *ProductBackfill) LinkProducts(ctx context.Context, tenantID uuid.UUID) (trade.ProductLinkReport, error) {
	report := trade.ProductLinkReport{Unresolved: []trade.UnresolvedLine{}}

	var lines []unlinkedLine
	if err := b.db.WithContext(ctx).
		Table("sales_order_items AS i").
		Select("i.id, i.order_id, o.order_number, i.product_name").
		Joins("JOIN sales_orders o ON o.id = i.order_id").
		Where("o.tenant_id = ? AND i.product_id IS NULL", tenantID).
		Order("o.order_number, i.position").
		Scan(&lines).Error; err != nil {
		return report, err
	}
	report.Scanned = len(lines)
	if len(lines) == 0 {
		return report, nil
	}

	var products []models.ProductModel
	if err := b.db.WithContext(ctx).Select("id", "name").
		Where("tenant_id = ?", tenantID).
		Find(&products).Error; err != nil {
		return report, err
	}
	byName := make(map[string][]uuid.UUID, len(products))
	for _, p := range products {
		key := normalizeProductName(p.Name)
		byName[key] = append(byName[key], p.ID)
	}

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			matches := byName[normalizeProductName(l.ProductName)]
			updates := map[string]any{"product_link_status": models.ProductLinkUnresolved}
			if len(matches) == 1 {
				updates = map[string]any{
					"product_id":          matches[0],
					"product_link_status": models.ProductLinkLinked,
				}
			}
			if err := tx.Model(&models.SalesOrderItemModel{}).Where("id = ?", l.ID).Updates(updates).Error; err != nil {
				return err
			}
			if len(matches) == 1 {
				report.Linked++
				continue
			}
			report.Unresolved = append(report.Unresolved, trade.UnresolvedLine{
				OrderID:     l.OrderID,
				OrderNumber: l.OrderNumber,
				LineID:      l.ID,
				ProductName: l.ProductName,
				Matches:     len(matches),
			})
		}
		return nil
	})
	if err != nil {
		return trade.ProductLinkReport{}, err
	}

	b.logger.Info("Product backfill finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("scanned", report.Scanned),
		zap.Int("linked", report.Linked),
		zap.Int("unresolved", len(report.Unresolved)),
	)
	return report, nil
}

func normalizeProductName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var _ trade.ProductLinker = (*ProductBackfill)(nil)
