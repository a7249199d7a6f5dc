package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type filePart struct {
	fileName    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for field, parts := range files {
		for _, part := range parts {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+part.fileName+`"`)
			header.Set("Content-Type", part.contentType)
			w, err := writer.CreatePart(header)
			require.NoError(t, err)
			_, err = w.Write(part.data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func postMultipart(t *testing.T, app *fiber.App, path string, fields map[string]string, files map[string][]filePart) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) apiEnvelope {
	t.Helper()
	defer resp.Body.Close()
	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

// validationError produces a real validator error for mock services to return.
func validationError(t *testing.T) error {
	t.Helper()
	type probe struct {
		Name string `validate:"required"`
	}
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(probe{})
	require.Error(t, err)
	return err
}
