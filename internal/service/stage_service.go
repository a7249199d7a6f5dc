package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/models"
	"github.com/headstoneworld/orders-api/internal/observability"
	"github.com/headstoneworld/orders-api/internal/repository"
)

// ErrInvalidSplitIndex indicates a split stage submission whose partition
// point falls outside the attachment array.
var ErrInvalidSplitIndex = errors.New("split index out of range")

// StageService handles the replace-all workflow stages: cemetery submission,
// art, engraving and foundation/setting.
type StageService interface {
	SubmitCemetery(ctx context.Context, req dto.StageRequest) error
	SubmitEngraving(ctx context.Context, req dto.StageRequest) error
	SubmitArt(ctx context.Context, req dto.SplitStageRequest) error
	SubmitFoundation(ctx context.Context, req dto.SplitStageRequest) error
}

type stageService struct {
	orders     repository.OrderRepository
	store      repository.AttachmentStore
	notifier   Notifier
	recipients Recipients
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewStageService constructs the replace-all stage service.
func NewStageService(
	orders repository.OrderRepository,
	store repository.AttachmentStore,
	notifier Notifier,
	recipients Recipients,
	validate *validator.Validate,
	logger zerolog.Logger,
) StageService {
	return &stageService{
		orders:     orders,
		store:      store,
		notifier:   notifier,
		recipients: recipients,
		validate:   validate,
		logger:     logger.With().Str("component", "stage_service").Logger(),
	}
}

func (s *stageService) SubmitCemetery(ctx context.Context, req dto.StageRequest) error {
	err := s.replaceStage("cemetery", req, models.StageCemeterySubmission)
	if err == nil {
		s.notifier.Notify(s.recipients.CemeteryApproval, req.HeadstoneName+": Prepare Cemetery Application", "")
	}
	return err
}

func (s *stageService) SubmitEngraving(ctx context.Context, req dto.StageRequest) error {
	err := s.replaceStage("engraving", req, models.StageEngraved)
	if err == nil {
		s.notifier.Notify(s.recipients.MonumentSetting, req.HeadstoneName+": Monument Install", "")
	}
	return err
}

func (s *stageService) SubmitArt(ctx context.Context, req dto.SplitStageRequest) error {
	err := s.replaceSplitStage("art", req, models.StageFinalArt, models.StageArtCemetery)
	if err == nil {
		s.notifier.Notify(s.recipients.Engraving, req.HeadstoneName+": Ready for engraving", "")
	}
	return err
}

func (s *stageService) SubmitFoundation(ctx context.Context, req dto.SplitStageRequest) error {
	err := s.replaceSplitStage("foundation", req, models.StageFoundation, models.StageMonumentSetting)
	if err == nil {
		s.notifier.Notify(s.recipients.MonumentSetting, req.HeadstoneName+": Monument Install", "")
	}
	return err
}

// replaceStage refreshes a single stage folder with the submitted set.
func (s *stageService) replaceStage(stage string, req dto.StageRequest, stagePath string) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	key := s.orders.ResolveKey(req.HeadstoneName, req.InvoiceNo)
	dir, err := s.orders.EnsureStageDir(key, stagePath)
	if err != nil {
		return s.fail(stage, err)
	}
	if err := s.store.ReplaceAll(dir, req.Images); err != nil {
		return s.fail(stage, err)
	}

	s.succeed(stage, req.Images)
	return nil
}

// replaceSplitStage partitions the submitted images at the split index and
// refreshes both sub-folders. Both folders are always rewritten, so a
// resubmission that routes everything to the first folder empties the second.
func (s *stageService) replaceSplitStage(stage string, req dto.SplitStageRequest, firstPath, secondPath string) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	if req.SplitIndex < 0 || req.SplitIndex > len(req.Images) {
		return ErrInvalidSplitIndex
	}

	key := s.orders.ResolveKey(req.HeadstoneName, req.InvoiceNo)
	firstDir, err := s.orders.EnsureStageDir(key, firstPath)
	if err != nil {
		return s.fail(stage, err)
	}
	secondDir, err := s.orders.EnsureStageDir(key, secondPath)
	if err != nil {
		return s.fail(stage, err)
	}

	if err := s.store.ReplaceAll(firstDir, req.Images[:req.SplitIndex]); err != nil {
		return s.fail(stage, err)
	}
	if err := s.store.ReplaceAll(secondDir, req.Images[req.SplitIndex:]); err != nil {
		return s.fail(stage, err)
	}

	s.succeed(stage, req.Images)
	return nil
}

func (s *stageService) succeed(stage string, images []dto.Attachment) {
	total := 0
	for _, image := range images {
		total += len(image.Data)
	}
	observability.StageSubmissions().WithLabelValues(stage, "ok").Inc()
	observability.AttachmentBytes().WithLabelValues(stage).Add(float64(total))
	s.logger.Info().Str("stage", stage).Int("images", len(images)).Msg("stage submission stored")
}

func (s *stageService) fail(stage string, err error) error {
	observability.StageSubmissions().WithLabelValues(stage, "error").Inc()
	return err
}
