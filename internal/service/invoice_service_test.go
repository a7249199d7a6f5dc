package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/models"
	"github.com/headstoneworld/orders-api/internal/repository"
	"github.com/headstoneworld/orders-api/internal/service"
)

func newInvoiceService(f *fixture) service.InvoiceService {
	return service.NewInvoiceService(
		f.orders, f.store, f.log, f.mirror, f.notifier,
		service.Recipients{CemeteryApproval: []string{"office@example.com"}},
		f.validate, zerolog.Nop(),
	)
}

func invoiceRequest() dto.InvoiceRequest {
	return dto.InvoiceRequest{
		HeadstoneName: "John Smith",
		InvoiceNo:     "INV-100",
		Username:      "amy",
		Deposit:       "50",
		PaymentMethod: "cash",
		Fields:        map[string]string{"cemetery": "Rookwood", "modelNo": "HW-1"},
		InvoicePDF:    dto.Attachment{FileName: "invoice.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4")},
		WorkOrderJPG:  dto.Attachment{FileName: "wo.jpg", MimeType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
	}
}

func TestSaveInvoicePersistsEverything(t *testing.T) {
	f := newFixture(t)
	svc := newInvoiceService(f)

	record, err := svc.SaveInvoice(context.Background(), invoiceRequest())
	require.NoError(t, err)

	require.Equal(t, "John Smith", record.Data["headstoneName"])
	require.Equal(t, "INV-100", record.Data["invoiceNo"])
	require.Equal(t, "Rookwood", record.Data["cemetery"])
	// The amount lives in the deposits history only.
	require.Equal(t, "", record.Data["deposit"])
	require.Len(t, record.Deposits, 1)
	require.Equal(t, "50", record.Deposits[0].DepositAmount)
	require.Equal(t, "cash", record.Deposits[0].PaymentMethod)

	dir := filepath.Join(f.root, "John_Smith_INV-100")
	_, err = os.Stat(filepath.Join(dir, "invoice_v1.pdf"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "work-order.jpg"))
	require.NoError(t, err)
	for _, stage := range models.InvoiceScaffold {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(stage)))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestSaveInvoiceResubmissionVersionsPDF(t *testing.T) {
	f := newFixture(t)
	svc := newInvoiceService(f)

	_, err := svc.SaveInvoice(context.Background(), invoiceRequest())
	require.NoError(t, err)

	req := invoiceRequest()
	req.Deposit = "25"
	record, err := svc.SaveInvoice(context.Background(), req)
	require.NoError(t, err)

	dir := filepath.Join(f.root, "John_Smith_INV-100")
	_, err = os.Stat(filepath.Join(dir, "invoice_v2.pdf"))
	require.NoError(t, err)
	require.Len(t, record.Deposits, 2)
	require.Equal(t, "25", record.Deposits[1].DepositAmount)
}

func TestSaveInvoiceRecordsActivityAndNotifies(t *testing.T) {
	f := newFixture(t)
	svc := newInvoiceService(f)

	_, err := svc.SaveInvoice(context.Background(), invoiceRequest())
	require.NoError(t, err)

	start := time.Now().AddDate(0, 0, -1)
	end := time.Now().AddDate(0, 0, 1)
	events, sum, err := f.log.QueryRange(start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, models.ActivityInvoice, events[0].Type)
	require.Equal(t, "amy", events[0].User)
	require.Equal(t, 50, sum)

	require.Len(t, f.mirror.rows, 1)
	require.True(t, f.mirror.rows[0].Invoice)
	require.False(t, f.mirror.rows[0].WorkOrder)

	require.Len(t, f.notifier.sent, 1)
	require.Equal(t, []string{"office@example.com"}, f.notifier.sent[0].Recipients)
	require.Equal(t, "John Smith: Prepare Cemetery Application", f.notifier.sent[0].Subject)
}

func TestSaveInvoiceValidation(t *testing.T) {
	f := newFixture(t)
	svc := newInvoiceService(f)

	req := invoiceRequest()
	req.Username = ""
	_, err := svc.SaveInvoice(context.Background(), req)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Empty(t, f.notifier.sent)
}

func TestSaveInvoiceCorruptRecordBlocks(t *testing.T) {
	f := newFixture(t)
	svc := newInvoiceService(f)

	dir := filepath.Join(f.root, "John_Smith_INV-100")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, models.RecordFileName), []byte("{broken"), 0o644))

	_, err := svc.SaveInvoice(context.Background(), invoiceRequest())
	require.ErrorIs(t, err, repository.ErrRecordCorrupt)
	require.Empty(t, f.notifier.sent)
}

func TestGetInvoice(t *testing.T) {
	f := newFixture(t)
	svc := newInvoiceService(f)

	_, err := svc.SaveInvoice(context.Background(), invoiceRequest())
	require.NoError(t, err)

	record, err := svc.GetInvoice(context.Background(), "INV-100")
	require.NoError(t, err)
	require.Equal(t, "John Smith", record.Data["headstoneName"])

	_, err = svc.GetInvoice(context.Background(), "INV-999")
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}
