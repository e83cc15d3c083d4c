package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/upload"
)

// Запас на заголовки multipart поверх лимита файла
const multipartOverhead = 1 << 20

type UploadHandler struct {
	files *upload.Service
}

func NewUploadHandler(files *upload.Service) *UploadHandler {
	return &UploadHandler{files: files}
}

// Upload принимает multipart поле file и возвращает ссылку для сообщения
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.files == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are disabled"})
		return
	}

	limit := h.files.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	res, err := h.files.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, upload.ErrEmptyFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		}
		return
	}

	c.JSON(http.StatusCreated, res)
}

// Download отдаёт файл по ссылке из сообщения
func (h *UploadHandler) Download(c *gin.Context) {
	if h.files == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are disabled"})
		return
	}

	data, info, err := h.files.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrInvalidFileID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		case errors.Is(err, upload.ErrFileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		}
		return
	}

	disposition := "attachment"
	if upload.Inline(info.ContentType) {
		disposition = "inline"
	}
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, info.Filename))
	c.Data(http.StatusOK, info.ContentType, data)
}
