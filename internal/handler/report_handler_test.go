package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/handler"
	"github.com/headstoneworld/orders-api/internal/models"
	"github.com/headstoneworld/orders-api/internal/repository"
)

type mockReportService struct {
	req      *dto.ReportQuery
	response dto.ReportResponse
	err      error
}

func (m *mockReportService) Query(ctx context.Context, req dto.ReportQuery) (dto.ReportResponse, error) {
	m.req = &req
	return m.response, m.err
}

func newReportApp(svc *mockReportService) *fiber.App {
	app := fiber.New()
	handler.NewReportHandler(svc, zerolog.Nop()).Register(app)
	return app
}

func TestReportHandler(t *testing.T) {
	svc := &mockReportService{response: dto.ReportResponse{
		Reports:       []models.ActivityEvent{{Date: "01/03/2024", User: "amy", Deposit: "50"}},
		SumOfDeposits: 50,
	}}
	app := newReportApp(svc)

	resp := get(t, app, "/reports?startDate=2024-03-01&endDate=2024-03-31")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)
	require.Contains(t, string(envelope.Data), "sumOfDeposits")

	require.NotNil(t, svc.req)
	require.Equal(t, "2024-03-01", svc.req.StartDate)
	require.Equal(t, "2024-03-31", svc.req.EndDate)
}

func TestReportHandlerMissingParams(t *testing.T) {
	app := newReportApp(&mockReportService{})

	resp := get(t, app, "/reports?startDate=2024-03-01")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.Equal(t, "please provide both startDate and endDate query parameters", envelope.Message)
}

func TestReportHandlerCorruptLog(t *testing.T) {
	svc := &mockReportService{err: repository.ErrLogCorrupt}
	app := newReportApp(svc)

	resp := get(t, app, "/reports?startDate=2024-03-01&endDate=2024-03-31")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.Equal(t, "activity log is corrupt", envelope.Message)
}
