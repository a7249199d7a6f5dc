package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/handler"
	"github.com/headstoneworld/orders-api/internal/service"
)

type mockStageService struct {
	stageReq *dto.StageRequest
	splitReq *dto.SplitStageRequest
	err      error
}

func (m *mockStageService) SubmitCemetery(ctx context.Context, req dto.StageRequest) error {
	m.stageReq = &req
	return m.err
}

func (m *mockStageService) SubmitEngraving(ctx context.Context, req dto.StageRequest) error {
	m.stageReq = &req
	return m.err
}

func (m *mockStageService) SubmitArt(ctx context.Context, req dto.SplitStageRequest) error {
	m.splitReq = &req
	return m.err
}

func (m *mockStageService) SubmitFoundation(ctx context.Context, req dto.SplitStageRequest) error {
	m.splitReq = &req
	return m.err
}

func newStageApp(svc *mockStageService) *fiber.App {
	app := fiber.New()
	handler.NewStageHandler(svc, zerolog.Nop()).Register(app)
	return app
}

func pngPart(name string) filePart {
	return filePart{fileName: name, contentType: "image/png", data: []byte{0x89, 'P', 'N', 'G'}}
}

func TestCemeterySubmissionHandler(t *testing.T) {
	svc := &mockStageService{}
	app := newStageApp(svc)

	fields := map[string]string{"headstoneName": "John Smith", "invoiceNo": "INV-100"}
	files := map[string][]filePart{"images": {pngPart("a.png"), pngPart("b.png")}}
	resp := postMultipart(t, app, "/submit-to-cemetery", fields, files)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.Equal(t, "Images saved and submitted to the cemetery successfully", envelope.Message)

	require.NotNil(t, svc.stageReq)
	require.Equal(t, "John Smith", svc.stageReq.HeadstoneName)
	require.Len(t, svc.stageReq.Images, 2)
	require.Equal(t, "a.png", svc.stageReq.Images[0].FileName)
}

func TestCemeterySubmissionHandlerAltSpelling(t *testing.T) {
	svc := &mockStageService{}
	app := newStageApp(svc)

	fields := map[string]string{"headStoneName": "John Smith", "invoiceNo": "INV-100"}
	resp := postMultipart(t, app, "/submit-to-cemetery", fields, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "John Smith", svc.stageReq.HeadstoneName)
}

func TestArtSubmissionHandlerPassesSplitIndex(t *testing.T) {
	svc := &mockStageService{}
	app := newStageApp(svc)

	fields := map[string]string{
		"headstoneName":  "John Smith",
		"invoiceNo":      "INV-100",
		"finalArtLength": "2",
	}
	files := map[string][]filePart{"finalArtImages": {pngPart("a.png"), pngPart("b.png"), pngPart("c.png")}}
	resp := postMultipart(t, app, "/art-submission", fields, files)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, svc.splitReq)
	require.Equal(t, 2, svc.splitReq.SplitIndex)
	require.Len(t, svc.splitReq.Images, 3)
}

func TestArtSubmissionHandlerBadLength(t *testing.T) {
	app := newStageApp(&mockStageService{})

	fields := map[string]string{
		"headstoneName":  "John Smith",
		"invoiceNo":      "INV-100",
		"finalArtLength": "lots",
	}
	resp := postMultipart(t, app, "/art-submission", fields, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestArtSubmissionHandlerSplitOutOfRange(t *testing.T) {
	svc := &mockStageService{err: service.ErrInvalidSplitIndex}
	app := newStageApp(svc)

	fields := map[string]string{
		"headstoneName":  "John Smith",
		"invoiceNo":      "INV-100",
		"finalArtLength": "9",
	}
	resp := postMultipart(t, app, "/art-submission", fields, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFoundationSubmissionHandler(t *testing.T) {
	svc := &mockStageService{}
	app := newStageApp(svc)

	fields := map[string]string{
		"headstoneName":          "John Smith",
		"invoiceNo":              "INV-100",
		"foundationImagesLength": "1",
	}
	files := map[string][]filePart{"foundationInstallImages": {pngPart("a.png"), pngPart("b.png")}}
	resp := postMultipart(t, app, "/foundation-submission", fields, files)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.Equal(t, "Foundation/Setting submission successful", envelope.Message)
	require.Equal(t, 1, svc.splitReq.SplitIndex)
}

func TestEngravingSubmissionHandlerFailure(t *testing.T) {
	svc := &mockStageService{err: errors.New("disk full")}
	app := newStageApp(svc)

	fields := map[string]string{"headstoneName": "John Smith", "invoiceNo": "INV-100"}
	files := map[string][]filePart{"engravingImages": {pngPart("a.png")}}
	resp := postMultipart(t, app, "/engraving-submission", fields, files)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
