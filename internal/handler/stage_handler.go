package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/service"
	"github.com/headstoneworld/orders-api/internal/utils"
)

// StageHandler handles the replace-all workflow stage submissions.
type StageHandler struct {
	service service.StageService
	logger  zerolog.Logger
}

// NewStageHandler constructs a stage submission handler.
func NewStageHandler(service service.StageService, logger zerolog.Logger) *StageHandler {
	return &StageHandler{
		service: service,
		logger:  logger.With().Str("component", "stage_handler").Logger(),
	}
}

// Register wires stage submission routes.
func (h *StageHandler) Register(router fiber.Router) {
	router.Post("/submit-to-cemetery", h.cemetery)
	router.Post("/art-submission", h.art)
	router.Post("/engraving-submission", h.engraving)
	router.Post("/foundation-submission", h.foundation)
}

func (h *StageHandler) cemetery(c *fiber.Ctx) error {
	form, images, err := h.parseImages(c, "images")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	fields := formValues(form)
	req := dto.StageRequest{
		HeadstoneName: headstoneField(fields),
		InvoiceNo:     fields["invoiceNo"],
		Images:        images,
	}
	if err := h.service.SubmitCemetery(c.Context(), req); err != nil {
		return h.sendStageError(c, err, "cemetery submission failed")
	}
	return utils.SendSuccess(c, "Images saved and submitted to the cemetery successfully", nil)
}

func (h *StageHandler) engraving(c *fiber.Ctx) error {
	form, images, err := h.parseImages(c, "engravingImages")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	fields := formValues(form)
	req := dto.StageRequest{
		HeadstoneName: headstoneField(fields),
		InvoiceNo:     fields["invoiceNo"],
		Images:        images,
	}
	if err := h.service.SubmitEngraving(c.Context(), req); err != nil {
		return h.sendStageError(c, err, "engraving submission failed")
	}
	return utils.SendSuccess(c, "Engraving submission successful", nil)
}

func (h *StageHandler) art(c *fiber.Ctx) error {
	form, images, err := h.parseImages(c, "finalArtImages")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	splitIndex, err := formInt(form, "finalArtLength")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid finalArtLength")
	}

	fields := formValues(form)
	req := dto.SplitStageRequest{
		HeadstoneName: headstoneField(fields),
		InvoiceNo:     fields["invoiceNo"],
		SplitIndex:    splitIndex,
		Images:        images,
	}
	if err := h.service.SubmitArt(c.Context(), req); err != nil {
		return h.sendStageError(c, err, "art submission failed")
	}
	return utils.SendSuccess(c, "Art submission successful", nil)
}

func (h *StageHandler) foundation(c *fiber.Ctx) error {
	form, images, err := h.parseImages(c, "foundationInstallImages")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	splitIndex, err := formInt(form, "foundationImagesLength")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid foundationImagesLength")
	}

	fields := formValues(form)
	req := dto.SplitStageRequest{
		HeadstoneName: headstoneField(fields),
		InvoiceNo:     fields["invoiceNo"],
		SplitIndex:    splitIndex,
		Images:        images,
	}
	if err := h.service.SubmitFoundation(c.Context(), req); err != nil {
		return h.sendStageError(c, err, "foundation submission failed")
	}
	return utils.SendSuccess(c, "Foundation/Setting submission successful", nil)
}

func (h *StageHandler) parseImages(c *fiber.Ctx, field string) (*multipart.Form, []dto.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, errors.New("multipart form required")
	}
	images, err := readAttachments(form.File[field])
	if err != nil {
		return nil, nil, errors.New("unreadable image upload")
	}
	return form, images, nil
}

func (h *StageHandler) sendStageError(c *fiber.Ctx, err error, message string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidSplitIndex):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}

// headstoneField tolerates both field spellings used by the clients.
func headstoneField(fields map[string]string) string {
	if name := fields["headstoneName"]; name != "" {
		return name
	}
	return fields["headStoneName"]
}
