// Package printing renders delivery notes for sales orders.
package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/printing"
	"github.com/tijara/backend/internal/domain/settings"
	"github.com/tijara/backend/internal/domain/shared"
	"github.com/tijara/backend/internal/domain/trade"
	infra "github.com/tijara/backend/internal/infrastructure/printing"
	"github.com/tijara/backend/internal/infrastructure/storage"
	"github.com/tijara/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CompanyProfiles returns the tenant's company profile, defaults included
type CompanyProfiles interface {
	Profile(ctx context.Context, tenantID uuid.UUID) (*settings.CompanyProfile, error)
}

// NoteTemplate turns a delivery note into an HTML document
type NoteTemplate interface {
	Render(note *printing.DeliveryNote) (string, error)
}

// RenderRecorder records render attempts
type RenderRecorder interface {
	RecordRender(ctx context.Context, d time.Duration, err error)
}

type nopRenderRecorder struct{}

func (nopRenderRecorder) RecordRender(context.Context, time.Duration, error) {}

// DeliveryNoteService renders the delivery note of a sales order to PDF,
// keeps a copy on disk and, when configured, in the document archive.
type DeliveryNoteService struct {
	orders   trade.SalesOrderRepository
	clients  partner.ClientRepository
	company  CompanyProfiles
	template NoteTemplate
	renderer infra.PDFRenderer
	storage  infra.PDFStorage
	archive  storage.DocumentArchive
	recorder RenderRecorder
	layout   printing.Layout
	linkTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewDeliveryNoteService creates a new DeliveryNoteService
func NewDeliveryNoteService(
	orders trade.SalesOrderRepository,
	clients partner.ClientRepository,
	company CompanyProfiles,
	template NoteTemplate,
	renderer infra.PDFRenderer,
	logger *zap.Logger,
) *DeliveryNoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryNoteService{
		orders:   orders,
		clients:  clients,
		company:  company,
		template: template,
		renderer: renderer,
		recorder: nopRenderRecorder{},
		layout:   printing.DefaultLayout,
		linkTTL:  15 * time.Minute,
		logger:   logger,
		now:      time.Now,
	}
}

// SetStorage keeps rendered PDFs on disk
func (s *DeliveryNoteService) SetStorage(st infra.PDFStorage) {
	s.storage = st
}

// SetArchive uploads rendered PDFs and returns presigned links valid for ttl
func (s *DeliveryNoteService) SetArchive(archive storage.DocumentArchive, ttl time.Duration) {
	s.archive = archive
	if ttl > 0 {
		s.linkTTL = ttl
	}
}

// SetRecorder sets the render metrics recorder
func (s *DeliveryNoteService) SetRecorder(recorder RenderRecorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// Render builds and renders the delivery note of an order. Storage and
// archive failures are logged; the PDF is still returned.
func (s *DeliveryNoteService) Render(ctx context.Context, tenantID, orderID uuid.UUID) (*DeliveryNoteResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "delivery_note", "render",
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrOrderID, orderID.String())
	defer span.End()

	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, shared.NotFoundAs(err, trade.ErrOrderNotFound)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderNumber, order.Number)

	var client *partner.Client
	if order.HasClient() {
		// a deleted client falls back to the name stored on the order
		if c, err := s.clients.FindByIDForTenant(ctx, tenantID, *order.ClientID); err == nil {
			client = c
		}
	}
	company, err := s.company.Profile(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	note := printing.NewDeliveryNote(order, client, company, s.layout)
	html, err := s.template.Render(note)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var rendered *infra.RenderResult
	start := time.Now()
	telemetry.WithOperationLabel(ctx, "delivery_note.render", func(ctx context.Context) {
		rendered, err = s.renderer.Render(ctx, &infra.RenderRequest{
			HTML:  html,
			Title: printing.DeliveryNoteTitle + " " + order.Number,
		})
	})
	s.recorder.RecordRender(ctx, time.Since(start), err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("delivery note render failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_number", order.Number),
			zap.Error(err))
		return nil, err
	}

	result := &DeliveryNoteResult{
		PDF:          rendered.PDFData,
		Filename:     DeliveryNoteFilename(order.Number),
		PageCount:    len(note.Pages),
		HiddenImages: rendered.HiddenImages,
	}
	at := s.now()
	s.store(ctx, tenantID, order, at, result)
	s.upload(ctx, tenantID, order, at, result)

	s.logger.Info("delivery note rendered",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.Number),
		zap.Int("pages", result.PageCount),
		zap.Int("bytes", len(result.PDF)))
	return result, nil
}

func (s *DeliveryNoteService) store(ctx context.Context, tenantID uuid.UUID, order *trade.SalesOrder, at time.Time, result *DeliveryNoteResult) {
	if s.storage == nil {
		return
	}
	stored, err := s.storage.Store(ctx, &infra.StoreRequest{
		TenantID:   tenantID,
		DocumentID: order.ID,
		PDFData:    result.PDF,
		At:         at,
	})
	if err != nil {
		s.logger.Warn("delivery note not stored",
			zap.String("order_number", order.Number),
			zap.Error(err))
		return
	}
	result.StoredPath = stored.Path
}

func (s *DeliveryNoteService) upload(ctx context.Context, tenantID uuid.UUID, order *trade.SalesOrder, at time.Time, result *DeliveryNoteResult) {
	if s.archive == nil {
		return
	}
	key := storage.DocumentKey(tenantID, order.ID, at)
	if err := s.archive.Put(ctx, key, result.PDF, storage.ContentTypePDF); err != nil {
		s.logger.Warn("delivery note not archived",
			zap.String("order_number", order.Number),
			zap.Error(err))
		return
	}
	url, expires, err := s.archive.DownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		s.logger.Warn("presign failed", zap.String("key", key), zap.Error(err))
		return
	}
	result.DownloadURL = url
	if url != "" {
		result.ExpiresAt = &expires
	}
}
