package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/models"
	"github.com/headstoneworld/orders-api/internal/observability"
	"github.com/headstoneworld/orders-api/internal/repository"
)

// InvoiceService saves invoice submissions and retrieves order records by
// invoice number.
type InvoiceService interface {
	SaveInvoice(ctx context.Context, req dto.InvoiceRequest) (models.OrderRecord, error)
	GetInvoice(ctx context.Context, invoiceNo string) (models.OrderRecord, error)
}

type invoiceService struct {
	orders     repository.OrderRepository
	store      repository.AttachmentStore
	recorder   activityRecorder
	notifier   Notifier
	recipients Recipients
	validate   *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewInvoiceService constructs the invoice stage service.
func NewInvoiceService(
	orders repository.OrderRepository,
	store repository.AttachmentStore,
	activityLog repository.ActivityLogRepository,
	mirror ReportMirror,
	notifier Notifier,
	recipients Recipients,
	validate *validator.Validate,
	logger zerolog.Logger,
) InvoiceService {
	componentLogger := logger.With().Str("component", "invoice_service").Logger()
	return &invoiceService{
		orders:     orders,
		store:      store,
		recorder:   activityRecorder{log: activityLog, mirror: mirror, logger: componentLogger},
		notifier:   notifier,
		recipients: recipients,
		validate:   validate,
		logger:     componentLogger,
		tracer:     otel.Tracer("github.com/headstoneworld/orders-api/internal/service/invoice"),
		now:        time.Now,
	}
}

// SaveInvoice writes the versioned invoice PDF and the work-order JPG,
// scaffolds the stage folders, merges the form fields and deposit into the
// record, then runs the post-commit bookkeeping. Attachments are written
// before the record so a failed record write never claims success.
func (s *invoiceService) SaveInvoice(ctx context.Context, req dto.InvoiceRequest) (models.OrderRecord, error) {
	ctx, span := s.tracer.Start(ctx, "invoice.save")
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return models.OrderRecord{}, err
	}

	key := s.orders.ResolveKey(req.HeadstoneName, req.InvoiceNo)
	span.SetAttributes(
		attribute.String("order.key", key),
		attribute.Int("invoice.pdf_bytes", len(req.InvoicePDF.Data)),
	)

	dir, err := s.orders.EnsureOrderDir(key)
	if err != nil {
		return models.OrderRecord{}, s.fail(span, err, "order dir")
	}
	for _, stage := range models.InvoiceScaffold {
		if _, err := s.orders.EnsureStageDir(key, stage); err != nil {
			return models.OrderRecord{}, s.fail(span, err, "stage scaffold")
		}
	}

	fileName, err := s.store.WriteVersioned(dir, "invoice", "pdf", req.InvoicePDF.Data)
	if err != nil {
		return models.OrderRecord{}, s.fail(span, err, "invoice pdf")
	}
	span.SetAttributes(attribute.String("invoice.file_name", fileName))

	if err := os.WriteFile(filepath.Join(dir, "work-order.jpg"), req.WorkOrderJPG.Data, 0o644); err != nil {
		return models.OrderRecord{}, s.fail(span, fmt.Errorf("write work-order jpg: %w", err), "work-order jpg")
	}

	patch := make(map[string]string, len(req.Fields)+3)
	for field, value := range req.Fields {
		patch[field] = value
	}
	patch["headstoneName"] = req.HeadstoneName
	patch["invoiceNo"] = req.InvoiceNo
	// The submitted amount lands in the deposits history, not the field map.
	patch["deposit"] = ""

	var deposit *models.Deposit
	if req.Deposit != "" {
		deposit = &models.Deposit{
			DepositAmount: req.Deposit,
			Date:          s.now().Format("2006-01-02"),
			PaymentMethod: req.PaymentMethod,
		}
	}

	record, err := s.orders.MergeAndSave(key, patch, deposit)
	if err != nil {
		return models.OrderRecord{}, s.fail(span, err, "record merge")
	}

	observability.StageSubmissions().WithLabelValues("invoice", "ok").Inc()
	observability.AttachmentBytes().WithLabelValues("invoice").Add(float64(len(req.InvoicePDF.Data) + len(req.WorkOrderJPG.Data)))
	span.SetStatus(codes.Ok, "saved")

	s.recorder.record(newActivityEvent(s.now(), req.Username, req.HeadstoneName, models.ActivityInvoice, req.Deposit))
	s.notifier.Notify(s.recipients.CemeteryApproval, req.HeadstoneName+": Prepare Cemetery Application", "")

	return record, nil
}

func (s *invoiceService) fail(span trace.Span, err error, msg string) error {
	observability.StageSubmissions().WithLabelValues("invoice", "error").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceNo string) (models.OrderRecord, error) {
	key, err := s.orders.FindByInvoiceNo(invoiceNo)
	if err != nil {
		return models.OrderRecord{}, err
	}
	return s.orders.LoadRecord(key)
}
