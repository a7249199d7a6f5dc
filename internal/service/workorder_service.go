package service

import (
	"context"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/models"
	"github.com/headstoneworld/orders-api/internal/observability"
	"github.com/headstoneworld/orders-api/internal/repository"
)

// WorkOrderService saves work orders, assembles the work-order view and
// resolves orders by fuzzy name search.
type WorkOrderService interface {
	SaveWorkOrder(ctx context.Context, req dto.WorkOrderRequest) error
	GetWorkOrder(ctx context.Context, invoiceNo string) (dto.WorkOrderView, error)
	Search(ctx context.Context, headstoneName string) ([]models.OrderRef, error)
	ModelDetails(ctx context.Context) ([]models.ModelDetail, error)
}

type workOrderService struct {
	orders   repository.OrderRepository
	store    repository.AttachmentStore
	catalog  repository.ModelDetailsRepository
	recorder activityRecorder
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

// NewWorkOrderService constructs the work-order stage service.
func NewWorkOrderService(
	orders repository.OrderRepository,
	store repository.AttachmentStore,
	catalog repository.ModelDetailsRepository,
	activityLog repository.ActivityLogRepository,
	mirror ReportMirror,
	validate *validator.Validate,
	logger zerolog.Logger,
) WorkOrderService {
	componentLogger := logger.With().Str("component", "workorder_service").Logger()
	return &workOrderService{
		orders:   orders,
		store:    store,
		catalog:  catalog,
		recorder: activityRecorder{log: activityLog, mirror: mirror, logger: componentLogger},
		validate: validate,
		logger:   componentLogger,
		now:      time.Now,
	}
}

// SaveWorkOrder writes the versioned work-order image and back-patches the
// follow-up tracking fields into the existing record. A work order cannot
// precede its invoice, so a missing record fails with ErrOrderNotFound.
func (s *workOrderService) SaveWorkOrder(ctx context.Context, req dto.WorkOrderRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	key := s.orders.ResolveKey(req.HeadstoneName, req.InvoiceNo)
	if _, err := s.orders.LoadRecord(key); err != nil {
		return s.fail(err)
	}

	dir, err := s.orders.EnsureStageDir(key, models.WorkOrderDir)
	if err != nil {
		return s.fail(err)
	}
	fileName, err := s.store.WriteVersioned(dir, "work order", "png", req.Image.Data)
	if err != nil {
		return s.fail(err)
	}

	if _, err := s.orders.MergeAndSave(key, followUpPatch(req.FollowUps), nil); err != nil {
		return s.fail(err)
	}

	observability.StageSubmissions().WithLabelValues("work_order", "ok").Inc()
	observability.AttachmentBytes().WithLabelValues("work_order").Add(float64(len(req.Image.Data)))
	s.logger.Info().Str("order", key).Str("file", fileName).Msg("work order stored")

	s.recorder.record(newActivityEvent(s.now(), req.Username, req.HeadstoneName, models.ActivityWorkOrder, ""))
	return nil
}

func (s *workOrderService) fail(err error) error {
	observability.StageSubmissions().WithLabelValues("work_order", "error").Inc()
	return err
}

// followUpPatch flattens the tracking dates into record fields. Only these
// keys are touched, so unrelated fields survive the merge.
func followUpPatch(f dto.FollowUpDates) map[string]string {
	return map[string]string{
		"cemeteryDate":         f.CemeteryDate,
		"cemeteryFollowUp1":    f.CemeteryFollowUp1,
		"cemeteryFollowUp2":    f.CemeteryFollowUp2,
		"cemeteryApprovedDate": f.CemeteryApprovedDate,
		"cemeteryNotes":        f.CemeteryNotes,
		"photoDate":            f.PhotoDate,
		"photoFollowUp1":       f.PhotoFollowUp1,
		"photoFollowUp2":       f.PhotoFollowUp2,
		"photoApprovedDate":    f.PhotoApprovedDate,
		"photoNotes":           f.PhotoNotes,
		"bronzeDate":           f.BronzeDate,
		"bronzeFollowUp1":      f.BronzeFollowUp1,
		"bronzeFollowUp2":      f.BronzeFollowUp2,
		"bronzeApprovedDate":   f.BronzeApprovedDate,
		"bronzeNotes":          f.BronzeNotes,
	}
}

// GetWorkOrder loads the record for an invoice number and gathers every
// stage's images. The per-folder reads are independent and read-only, so
// they run concurrently.
func (s *workOrderService) GetWorkOrder(ctx context.Context, invoiceNo string) (dto.WorkOrderView, error) {
	key, err := s.orders.FindByInvoiceNo(invoiceNo)
	if err != nil {
		return dto.WorkOrderView{}, err
	}
	record, err := s.orders.LoadRecord(key)
	if err != nil {
		return dto.WorkOrderView{}, err
	}

	orderDir := s.orders.OrderDir(key)
	stages := []string{
		models.StageDesignApproved,
		models.StageEngraved,
		models.StageFoundation,
		models.StageMonumentSetting,
		models.StageCemeteryApproval,
		models.StageArtwork,
	}

	groups := make([][]dto.ImageMetadata, len(stages))
	g, _ := errgroup.WithContext(ctx)
	for i, stage := range stages {
		g.Go(func() error {
			images, err := s.store.ListImages(filepath.Join(orderDir, filepath.FromSlash(stage)))
			if err != nil {
				return err
			}
			groups[i] = images
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.WorkOrderView{}, err
	}

	return dto.WorkOrderView{
		HeadStoneName:    record.Data["headstoneName"],
		InvoiceNo:        record.Data["invoiceNo"],
		Fields:           record.Data,
		DesignApproved:   groups[0],
		Engraved:         groups[1],
		Foundation:       groups[2],
		MonumentSetting:  groups[3],
		CemeteryApproval: groups[4],
		FinalArt:         groups[5],
	}, nil
}

func (s *workOrderService) Search(ctx context.Context, headstoneName string) ([]models.OrderRef, error) {
	return s.orders.SearchByName(headstoneName)
}

func (s *workOrderService) ModelDetails(ctx context.Context) ([]models.ModelDetail, error) {
	return s.catalog.Load()
}
