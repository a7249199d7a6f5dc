package repository_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/headstoneworld/orders-api/internal/models"
	"github.com/headstoneworld/orders-api/internal/repository"
)

func newActivityLog(t *testing.T) (repository.ActivityLogRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	return repository.NewActivityLogRepository(path, zerolog.Nop()), path
}

func TestAppendCreatesLog(t *testing.T) {
	log, path := newActivityLog(t)

	require.NoError(t, log.Append(models.ActivityEvent{
		Date:          "01/03/2024",
		Time:          "10:15:00",
		User:          "amy",
		HeadstoneName: "John Smith",
		Type:          models.ActivityInvoice,
		Deposit:       "50",
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var events []models.ActivityEvent
	require.NoError(t, json.Unmarshal(raw, &events))
	require.Len(t, events, 1)
	require.Equal(t, "John Smith", events[0].HeadstoneName)
}

func TestAppendPreservesExistingEvents(t *testing.T) {
	log, _ := newActivityLog(t)

	require.NoError(t, log.Append(models.ActivityEvent{Date: "01/03/2024", User: "amy"}))
	require.NoError(t, log.Append(models.ActivityEvent{Date: "02/03/2024", User: "ben"}))

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	events, _, err := log.QueryRange(start, end)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "amy", events[0].User)
	require.Equal(t, "ben", events[1].User)
}

func TestAppendCorruptLogSurfaces(t *testing.T) {
	log, path := newActivityLog(t)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	err := log.Append(models.ActivityEvent{Date: "01/03/2024"})
	require.ErrorIs(t, err, repository.ErrLogCorrupt)
}

func TestQueryRangeInclusiveAcrossMonthBoundary(t *testing.T) {
	log, _ := newActivityLog(t)

	// Lexicographic comparison would put 28/09 after 02/10; chronological
	// parsing must not.
	require.NoError(t, log.Append(models.ActivityEvent{Date: "28/09/2024", User: "amy", Deposit: "100"}))
	require.NoError(t, log.Append(models.ActivityEvent{Date: "02/10/2024", User: "ben", Deposit: "40"}))
	require.NoError(t, log.Append(models.ActivityEvent{Date: "15/11/2024", User: "cal", Deposit: "5"}))

	start := time.Date(2024, 9, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)
	events, sum, err := log.QueryRange(start, end)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, 140, sum)
}

func TestQueryRangeSkipsUnparsableDates(t *testing.T) {
	log, _ := newActivityLog(t)

	require.NoError(t, log.Append(models.ActivityEvent{Date: "yesterday", Deposit: "999"}))
	require.NoError(t, log.Append(models.ActivityEvent{Date: "05/06/2024", Deposit: "10"}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	events, sum, err := log.QueryRange(start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, 10, sum)
}

func TestQueryRangeDepositParsing(t *testing.T) {
	log, _ := newActivityLog(t)

	require.NoError(t, log.Append(models.ActivityEvent{Date: "05/06/2024", Deposit: "25"}))
	require.NoError(t, log.Append(models.ActivityEvent{Date: "06/06/2024", Deposit: "12.5"}))
	require.NoError(t, log.Append(models.ActivityEvent{Date: "07/06/2024", Deposit: "none"}))
	require.NoError(t, log.Append(models.ActivityEvent{Date: "08/06/2024", Deposit: ""}))

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	events, sum, err := log.QueryRange(start, end)
	require.NoError(t, err)
	require.Len(t, events, 4)
	require.Equal(t, 37, sum)
}

func TestQueryRangeMissingLog(t *testing.T) {
	log, _ := newActivityLog(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	events, sum, err := log.QueryRange(start, end)
	require.NoError(t, err)
	require.Empty(t, events)
	require.Zero(t, sum)
}
