package upload

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/voxus/internal/coordinator"
)

const defaultContentType = "application/octet-stream"

// Result - ссылка на загруженный файл для сообщения типа image/file
type Result struct {
	ID       string                  `json:"id"`
	URL      string                  `json:"url"`
	Filename string                  `json:"filename"`
	Mime     string                  `json:"mime"`
	Kind     coordinator.MessageType `json:"kind"`
	Size     int                     `json:"size"`
}

type Service struct {
	store    ObjectStore
	maxBytes int64
}

func NewService(store ObjectStore, maxBytes int64) *Service {
	return &Service{store: store, maxBytes: maxBytes}
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Upload сохраняет файл и возвращает ссылку /files/<id>. Тип содержимого
// определяется по самим данным, заявленный клиентом тип не используется.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	contentType := http.DetectContentType(data)

	id := uuid.NewString()
	safe := sanitizeFilename(filename)
	if _, err := s.store.Put(ctx, id, data, ObjectInfo{Filename: safe, ContentType: contentType}); err != nil {
		return nil, err
	}

	return &Result{
		ID:       id,
		URL:      "/files/" + id,
		Filename: safe,
		Mime:     contentType,
		Kind:     kindOf(contentType),
		Size:     len(data),
	}, nil
}

// Open возвращает содержимое файла по id
func (s *Service) Open(ctx context.Context, id string) ([]byte, *ObjectInfo, error) {
	if err := validateFileID(id); err != nil {
		return nil, nil, err
	}
	return s.store.Get(ctx, id)
}

// Типы, которые можно отдавать inline. Всё остальное скачивается как вложение.
var inlineTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// Inline сообщает, можно ли показывать файл прямо в браузере
func Inline(contentType string) bool {
	return inlineTypes[contentType]
}

func kindOf(contentType string) coordinator.MessageType {
	if strings.HasPrefix(contentType, "image/") {
		return coordinator.MessageImage
	}
	return coordinator.MessageFile
}

// sanitizeFilename убирает из имени каталоги и разделители пути
func sanitizeFilename(filename string) string {
	clean := filepath.Base(filepath.Clean(filename))
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "\\", "_")
	if clean == "." || clean == ".." || clean == "" {
		return "unnamed"
	}
	return clean
}

func validateFileID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFileID, id)
	}
	return nil
}
