package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/service"
)

// FileHandler handles cover image uploads
type FileHandler struct {
	service     service.FileService
	maxFileSize int64
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(service service.FileService, maxFileSize int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Upload handles POST /files with a multipart "file" field
func (h *FileHandler) Upload(c *gin.Context) {
	if h.maxFileSize > 0 {
		// Leave room for the multipart envelope
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+1<<20)
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("⚠️ [FileHandler] Missing or oversized file", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required in the 'file' field"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("❌ [FileHandler] Failed to open upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	stored, err := h.service.Upload(c.Request.Context(), service.UploadInput{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}
