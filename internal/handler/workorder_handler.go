package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/repository"
	"github.com/headstoneworld/orders-api/internal/service"
	"github.com/headstoneworld/orders-api/internal/utils"
)

// WorkOrderHandler handles work-order submission, retrieval and order search.
type WorkOrderHandler struct {
	service service.WorkOrderService
	logger  zerolog.Logger
}

// NewWorkOrderHandler constructs a work-order handler.
func NewWorkOrderHandler(service service.WorkOrderService, logger zerolog.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		service: service,
		logger:  logger.With().Str("component", "workorder_handler").Logger(),
	}
}

// Register wires work-order routes.
func (h *WorkOrderHandler) Register(router fiber.Router) {
	router.Post("/work-order", h.save)
	router.Get("/work-order", h.get)
	router.Get("/work-orders", h.search)
	router.Get("/workorderpdf", h.modelDetails)
}

func (h *WorkOrderHandler) save(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "multipart form required")
	}
	files := form.File["workOrder"]
	if len(files) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "work order image is required")
	}
	image, err := readAttachment(files[0])
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable work order image")
	}

	fields := formValues(form)
	req := dto.WorkOrderRequest{
		HeadstoneName: headstoneField(fields),
		InvoiceNo:     fields["invoiceNo"],
		Username:      fields["username"],
		Image:         image,
		FollowUps:     followUpsFromForm(fields),
	}
	if req.Username == "" {
		req.Username = usernameFromContext(c)
	}

	if err := h.service.SaveWorkOrder(c.Context(), req); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrOrderNotFound):
			// A work order cannot precede its invoice.
			return utils.SendError(c, fiber.StatusNotFound, "order record not found; save the invoice first")
		case errors.Is(err, repository.ErrRecordCorrupt):
			requestLogger(h.logger, c).Error().Err(err).Msg("work order hit corrupt record")
			return utils.SendError(c, fiber.StatusConflict, "order record is corrupt")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("work order save failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "work order save failed")
		}
	}

	return utils.SendSuccess(c, "Work Order and data saved successfully", nil)
}

func followUpsFromForm(fields map[string]string) dto.FollowUpDates {
	return dto.FollowUpDates{
		CemeteryDate:         fields["cemeteryDate"],
		CemeteryFollowUp1:    fields["cemeteryFollowUp1"],
		CemeteryFollowUp2:    fields["cemeteryFollowUp2"],
		CemeteryApprovedDate: fields["cemeteryApprovedDate"],
		CemeteryNotes:        fields["cemeteryNotes"],
		PhotoDate:            fields["photoDate"],
		PhotoFollowUp1:       fields["photoFollowUp1"],
		PhotoFollowUp2:       fields["photoFollowUp2"],
		PhotoApprovedDate:    fields["photoApprovedDate"],
		PhotoNotes:           fields["photoNotes"],
		BronzeDate:           fields["bronzeDate"],
		BronzeFollowUp1:      fields["bronzeFollowUp1"],
		BronzeFollowUp2:      fields["bronzeFollowUp2"],
		BronzeApprovedDate:   fields["bronzeApprovedDate"],
		BronzeNotes:          fields["bronzeNotes"],
	}
}

func (h *WorkOrderHandler) get(c *fiber.Ctx) error {
	invoiceNo := strings.TrimSpace(c.Query("invoiceNo"))
	if invoiceNo == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invoiceNo query parameter is required")
	}

	view, err := h.service.GetWorkOrder(c.Context(), invoiceNo)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "matching order not found")
		case errors.Is(err, repository.ErrRecordCorrupt):
			requestLogger(h.logger, c).Error().Err(err).Msg("work order record corrupt")
			return utils.SendError(c, fiber.StatusConflict, "order record is corrupt")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("work order lookup failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "work order lookup failed")
		}
	}

	return utils.SendSuccess(c, "work order found", view)
}

func (h *WorkOrderHandler) search(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("headstoneName"))
	if name == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "headstoneName query parameter is required")
	}

	refs, err := h.service.Search(c.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoMatch):
			return utils.SendError(c, fiber.StatusNotFound, "no matching orders found")
		case errors.Is(err, repository.ErrMalformedDirectoryName):
			requestLogger(h.logger, c).Error().Err(err).Msg("malformed order directory")
			return utils.SendError(c, fiber.StatusInternalServerError, "order directory name is malformed")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("order search failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "order search failed")
		}
	}

	return utils.SendSuccess(c, "orders found", refs)
}

func (h *WorkOrderHandler) modelDetails(c *fiber.Ctx) error {
	details, err := h.service.ModelDetails(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("model catalog load failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "model catalog unavailable")
	}
	return utils.SendSuccess(c, "model catalog", details)
}
