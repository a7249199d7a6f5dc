package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/models"
)

// ErrLogCorrupt indicates the activity log file is not valid JSON.
var ErrLogCorrupt = errors.New("activity log corrupt")

// EventDateLayout is the fixed-width date format events are stored with.
const EventDateLayout = "02/01/2006"

// ActivityLogRepository owns the global append-only workflow event log.
type ActivityLogRepository interface {
	Append(event models.ActivityEvent) error
	QueryRange(start, end time.Time) ([]models.ActivityEvent, int, error)
}

type fsActivityLogRepository struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewActivityLogRepository constructs a repository over the JSON log at path.
func NewActivityLogRepository(path string, logger zerolog.Logger) ActivityLogRepository {
	return &fsActivityLogRepository{
		path:   path,
		logger: logger.With().Str("component", "activity_log").Logger(),
	}
}

func (r *fsActivityLogRepository) load() ([]models.ActivityEvent, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read activity log: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var events []models.ActivityEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogCorrupt, err)
	}
	return events, nil
}

// Append reads the log, adds the event and writes the list back. A corrupt
// log surfaces as an error instead of being reset to empty.
func (r *fsActivityLogRepository) Append(event models.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load()
	if err != nil {
		return err
	}
	events = append(events, event)

	raw, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encode activity log: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("stage activity log: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("stage activity log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("stage activity log: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit activity log: %w", err)
	}
	return nil
}

// QueryRange returns events whose date falls inside [start, end] inclusive,
// plus the sum of their deposits. Dates are parsed before comparing so the
// range behaves chronologically across month and year boundaries.
func (r *fsActivityLogRepository) QueryRange(start, end time.Time) ([]models.ActivityEvent, int, error) {
	r.mu.Lock()
	events, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]models.ActivityEvent, 0, len(events))
	sum := 0
	for _, event := range events {
		date, err := time.Parse(EventDateLayout, event.Date)
		if err != nil {
			r.logger.Warn().Str("date", event.Date).Msg("skipping event with unparsable date")
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		filtered = append(filtered, event)
		sum += depositValue(event.Deposit)
	}
	return filtered, sum, nil
}

// depositValue parses a deposit amount, treating missing or non-numeric
// values as zero.
func depositValue(deposit string) int {
	if n, err := strconv.Atoi(deposit); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(deposit, 64); err == nil {
		return int(f)
	}
	return 0
}
