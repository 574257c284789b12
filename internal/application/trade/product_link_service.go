package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/trade"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductLinkService links legacy order lines to catalog products by name
type ProductLinkService struct {
	linker trade.ProductLinker
	logger *zap.Logger
}

// NewProductLinkService creates a new ProductLinkService
func NewProductLinkService(linker trade.ProductLinker, logger *zap.Logger) *ProductLinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductLinkService{linker: linker, logger: logger}
}

// Backfill runs the linker for one tenant and logs what stayed unresolved
func (s *ProductLinkService) Backfill(ctx context.Context, tenantID uuid.UUID) (*trade.ProductLinkReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "maintenance", "backfill_products",
		telemetry.SpanAttrTenantID, tenantID.String())
	defer span.End()

	report, err := s.linker.LinkProducts(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		"scanned", report.Scanned,
		"linked", report.Linked,
		"unresolved", len(report.Unresolved))

	if report.Unresolved == nil {
		report.Unresolved = []trade.UnresolvedLine{}
	}
	if len(report.Unresolved) > 0 {
		s.logger.Warn("order lines left without product",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("unresolved", len(report.Unresolved)))
	}
	return &report, nil
}
