package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/repository"
	"github.com/headstoneworld/orders-api/internal/service"
	"github.com/headstoneworld/orders-api/internal/utils"
)

// ReportHandler serves the activity log report.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs a report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires report routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/reports", h.query)
}

func (h *ReportHandler) query(c *fiber.Ctx) error {
	req := dto.ReportQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if req.StartDate == "" || req.EndDate == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "please provide both startDate and endDate query parameters")
	}

	response, err := h.service.Query(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrLogCorrupt):
			requestLogger(h.logger, c).Error().Err(err).Msg("activity log corrupt")
			return utils.SendError(c, fiber.StatusInternalServerError, "activity log is corrupt")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("report query failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "report query failed")
		}
	}

	return utils.SendSuccess(c, "report generated", response)
}
