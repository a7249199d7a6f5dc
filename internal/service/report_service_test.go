package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/models"
	"github.com/headstoneworld/orders-api/internal/service"
)

func TestReportQuerySumsDeposits(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.log.Append(models.ActivityEvent{Date: "28/09/2024", User: "amy", Deposit: "100"}))
	require.NoError(t, f.log.Append(models.ActivityEvent{Date: "02/10/2024", User: "ben", Deposit: "40"}))
	require.NoError(t, f.log.Append(models.ActivityEvent{Date: "20/10/2024", User: "cal", Deposit: "5"}))

	svc := service.NewReportService(f.log, f.validate, zerolog.Nop())
	response, err := svc.Query(context.Background(), dto.ReportQuery{StartDate: "2024-09-01", EndDate: "2024-10-02"})
	require.NoError(t, err)
	require.Len(t, response.Reports, 2)
	require.Equal(t, 140, response.SumOfDeposits)
}

func TestReportQueryValidatesDates(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReportService(f.log, f.validate, zerolog.Nop())

	_, err := svc.Query(context.Background(), dto.ReportQuery{StartDate: "2024-09-01"})
	require.Error(t, err)

	_, err = svc.Query(context.Background(), dto.ReportQuery{StartDate: "01/09/2024", EndDate: "2024-10-02"})
	require.Error(t, err)
}
