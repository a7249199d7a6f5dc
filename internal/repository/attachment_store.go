package repository

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
)

// AttachmentStore persists binary attachments inside stage folders. Callers
// pass fully resolved directories; the store never derives paths itself, so a
// destructive ReplaceAll can only hit the folder it was given.
type AttachmentStore interface {
	WriteVersioned(dir, baseName, ext string, data []byte) (string, error)
	ReplaceAll(dir string, attachments []dto.Attachment) error
	ListImages(dir string) ([]dto.ImageMetadata, error)
}

type fsAttachmentStore struct {
	logger zerolog.Logger
}

// NewAttachmentStore constructs a filesystem attachment store.
func NewAttachmentStore(logger zerolog.Logger) AttachmentStore {
	return &fsAttachmentStore{
		logger: logger.With().Str("component", "attachment_store").Logger(),
	}
}

// WriteVersioned writes data under the lowest free <baseName>_v<N>.<ext>
// name. Existing versions are never overwritten, so resubmissions keep the
// full history.
func (s *fsAttachmentStore) WriteVersioned(dir, baseName, ext string, data []byte) (string, error) {
	for version := 1; ; version++ {
		fileName := fmt.Sprintf("%s_v%d.%s", baseName, version, ext)
		path := filepath.Join(dir, fileName)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("probe %s: %w", fileName, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", fileName, err)
		}
		return fileName, nil
	}
}

// ReplaceAll deletes every file in dir, then writes the new attachment set
// with timestamp-ordinal names. Destructive and irreversible: submitting a
// stage discards that stage's prior evidence.
func (s *fsAttachmentStore) ReplaceAll(dir string, attachments []dto.Attachment) error {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
	}

	now := time.Now().UnixMilli()
	for i, attachment := range attachments {
		ext := s.extensionFor(attachment)
		fileName := fmt.Sprintf("%d_%d.%s", now, i, ext)
		if err := os.WriteFile(filepath.Join(dir, fileName), attachment.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", fileName, err)
		}
	}
	return nil
}

// extensionFor maps the declared MIME type to a file extension, sniffing the
// bytes when the declaration is missing or unknown. An unresolvable type gets
// the "unknown" extension; the file is still written.
func (s *fsAttachmentStore) extensionFor(attachment dto.Attachment) string {
	if m := mimetype.Lookup(attachment.MimeType); m != nil {
		if ext := strings.TrimPrefix(m.Extension(), "."); ext != "" {
			return ext
		}
	}
	if ext := strings.TrimPrefix(mimetype.Detect(attachment.Data).Extension(), "."); ext != "" {
		return ext
	}
	s.logger.Warn().
		Str("mime_type", attachment.MimeType).
		Str("file_name", attachment.FileName).
		Msg("unrecognised attachment type")
	return "unknown"
}

var imageMimeByExt = map[string]string{
	"jpg":  "jpeg",
	"jpeg": "jpeg",
	"png":  "png",
	"gif":  "gif",
}

// ListImages re-reads dir and returns metadata for its image files. Non-image
// files are skipped; a missing directory yields an empty list.
func (s *fsAttachmentStore) ListImages(dir string) ([]dto.ImageMetadata, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	images := make([]dto.ImageMetadata, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		mimeSubtype, ok := imageMimeByExt[ext]
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}

		images = append(images, dto.ImageMetadata{
			FileName:   entry.Name(),
			Base64Data: "data:image/" + mimeSubtype + ";base64," + base64.StdEncoding.EncodeToString(data),
			// Creation time is not portable across filesystems; the
			// modification time stands in for both.
			CreatedAt:  info.ModTime(),
			ModifiedAt: info.ModTime(),
		})
	}
	return images, nil
}
