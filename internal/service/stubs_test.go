package service_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/repository"
	"github.com/headstoneworld/orders-api/pkg/spreadsheet"
)

type stubMirror struct {
	rows []spreadsheet.Row
}

func (m *stubMirror) Append(row spreadsheet.Row) error {
	m.rows = append(m.rows, row)
	return nil
}

type sentNotification struct {
	Recipients []string
	Subject    string
	Body       string
}

type stubNotifier struct {
	sent []sentNotification
}

func (n *stubNotifier) Notify(recipients []string, subject, body string) {
	n.sent = append(n.sent, sentNotification{Recipients: recipients, Subject: subject, Body: body})
}

type fixture struct {
	orders   repository.OrderRepository
	store    repository.AttachmentStore
	log      repository.ActivityLogRepository
	mirror   *stubMirror
	notifier *stubNotifier
	validate *validator.Validate
	root     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	return &fixture{
		orders:   repository.NewOrderRepository(root, zerolog.Nop()),
		store:    repository.NewAttachmentStore(zerolog.Nop()),
		log:      repository.NewActivityLogRepository(root+"/report.json", zerolog.Nop()),
		mirror:   &stubMirror{},
		notifier: &stubNotifier{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		root:     root,
	}
}
