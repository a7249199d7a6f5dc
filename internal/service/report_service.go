package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/repository"
)

const queryDateLayout = "2006-01-02"

// ReportService queries the workflow activity log.
type ReportService interface {
	Query(ctx context.Context, req dto.ReportQuery) (dto.ReportResponse, error)
}

type reportService struct {
	log      repository.ActivityLogRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewReportService constructs the reporting service.
func NewReportService(log repository.ActivityLogRepository, validate *validator.Validate, logger zerolog.Logger) ReportService {
	return &reportService{
		log:      log,
		validate: validate,
		logger:   logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) Query(ctx context.Context, req dto.ReportQuery) (dto.ReportResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.ReportResponse{}, err
	}

	start, err := time.Parse(queryDateLayout, req.StartDate)
	if err != nil {
		return dto.ReportResponse{}, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse(queryDateLayout, req.EndDate)
	if err != nil {
		return dto.ReportResponse{}, fmt.Errorf("parse end date: %w", err)
	}

	events, sum, err := s.log.QueryRange(start, end)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	return dto.ReportResponse{Reports: events, SumOfDeposits: sum}, nil
}
