package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/models"
	"github.com/headstoneworld/orders-api/internal/repository"
	"github.com/headstoneworld/orders-api/pkg/spreadsheet"
)

// ReportMirror appends one row to the daily tabular report.
type ReportMirror interface {
	Append(row spreadsheet.Row) error
}

// Notifier sends a fire-and-forget notification to each recipient.
type Notifier interface {
	Notify(recipients []string, subject, body string)
}

// Recipients maps workflow stages to notification addresses.
type Recipients struct {
	CemeteryApproval []string
	Engraving        []string
	MonumentSetting  []string
}

// activityRecorder runs the post-commit bookkeeping shared by the invoice and
// work-order stages: the activity log append and the daily-report mirror.
// Both run after the primary write has succeeded; a failure in either is
// reported to the operational log and never rolls the primary write back.
type activityRecorder struct {
	log    repository.ActivityLogRepository
	mirror ReportMirror
	logger zerolog.Logger
}

func (r *activityRecorder) record(event models.ActivityEvent) {
	if err := r.log.Append(event); err != nil {
		r.logger.Error().Err(err).
			Str("headstone", event.HeadstoneName).
			Str("type", event.Type).
			Msg("activity log append failed")
	}

	if err := r.mirror.Append(spreadsheet.Row{
		Date:      event.Date,
		Time:      event.Time,
		User:      event.User,
		Headstone: event.HeadstoneName,
		Invoice:   event.Type == models.ActivityInvoice,
		WorkOrder: event.Type == models.ActivityWorkOrder,
		Deposit:   event.Deposit,
	}); err != nil {
		r.logger.Error().Err(err).
			Str("headstone", event.HeadstoneName).
			Str("type", event.Type).
			Msg("daily report append failed")
	}
}

// newActivityEvent stamps an event with the current fixed-width date and time.
func newActivityEvent(now time.Time, user, headstone, eventType, deposit string) models.ActivityEvent {
	return models.ActivityEvent{
		Date:          now.Format(repository.EventDateLayout),
		Time:          now.Format("15:04:05"),
		User:          user,
		HeadstoneName: headstone,
		Type:          eventType,
		Deposit:       deposit,
	}
}
