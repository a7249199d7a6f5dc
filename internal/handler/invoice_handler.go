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

// InvoiceHandler handles invoice submission and retrieval.
type InvoiceHandler struct {
	service service.InvoiceService
	logger  zerolog.Logger
}

// NewInvoiceHandler constructs an invoice handler.
func NewInvoiceHandler(service service.InvoiceService, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger.With().Str("component", "invoice_handler").Logger(),
	}
}

// Register wires invoice routes.
func (h *InvoiceHandler) Register(router fiber.Router) {
	router.Post("/save-invoice", h.save)
	router.Get("/invoice", h.get)
}

func (h *InvoiceHandler) save(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "multipart form required")
	}

	pdfs := form.File["pdf"]
	jpgs := form.File["jpg"]
	if len(pdfs) == 0 || len(jpgs) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invoice pdf and work-order jpg are required")
	}

	pdf, err := readAttachment(pdfs[0])
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable invoice pdf")
	}
	jpg, err := readAttachment(jpgs[0])
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unreadable work-order jpg")
	}

	fields := formValues(form)
	req := dto.InvoiceRequest{
		HeadstoneName: fields["headstoneName"],
		InvoiceNo:     fields["invoiceNo"],
		Username:      fields["username"],
		Deposit:       fields["deposit"],
		PaymentMethod: fields["paymentMethod"],
		Fields:        fields,
		InvoicePDF:    pdf,
		WorkOrderJPG:  jpg,
	}
	if req.Username == "" {
		req.Username = usernameFromContext(c)
	}

	if _, err := h.service.SaveInvoice(c.Context(), req); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrRecordCorrupt):
			requestLogger(h.logger, c).Error().Err(err).Msg("invoice save hit corrupt record")
			return utils.SendError(c, fiber.StatusConflict, "order record is corrupt")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("invoice save failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "invoice save failed")
		}
	}

	return utils.SendSuccess(c, "PDF file and data saved successfully", nil)
}

func (h *InvoiceHandler) get(c *fiber.Ctx) error {
	invoiceNo := strings.TrimSpace(c.Query("invoiceNo"))
	if invoiceNo == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invoiceNo query parameter is required")
	}

	record, err := h.service.GetInvoice(c.Context(), invoiceNo)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "invoice not found")
		case errors.Is(err, repository.ErrRecordCorrupt):
			requestLogger(h.logger, c).Error().Err(err).Msg("invoice record corrupt")
			return utils.SendError(c, fiber.StatusConflict, "order record is corrupt")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("invoice lookup failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "invoice lookup failed")
		}
	}

	return utils.SendSuccess(c, "invoice found", record)
}
