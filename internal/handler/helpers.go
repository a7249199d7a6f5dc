package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/middleware"
)

// readAttachment drains one multipart file into an in-memory attachment.
func readAttachment(header *multipart.FileHeader) (dto.Attachment, error) {
	file, err := header.Open()
	if err != nil {
		return dto.Attachment{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return dto.Attachment{}, err
	}

	return dto.Attachment{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// readAttachments drains a multipart file array, preserving the client's
// upload order. Split stages rely on that order.
func readAttachments(headers []*multipart.FileHeader) ([]dto.Attachment, error) {
	attachments := make([]dto.Attachment, 0, len(headers))
	for _, header := range headers {
		attachment, err := readAttachment(header)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, nil
}

// formValues flattens multipart values to their first entry.
func formValues(form *multipart.Form) map[string]string {
	fields := make(map[string]string, len(form.Value))
	for key, values := range form.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields
}

func formInt(form *multipart.Form, key string) (int, error) {
	values := form.Value[key]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(values[0]))
}

func usernameFromContext(c *fiber.Ctx) string {
	if v := c.Locals("username"); v != nil {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
