package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/clock"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/storage"
)

// UploadInput describes an uploaded cover image
type UploadInput struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileService stores cover images and resolves their public URLs
type FileService interface {
	Upload(ctx context.Context, input UploadInput) (*models.File, error)
	Find(ctx context.Context, fileID uint) (*models.File, error)
	Decorate(file *models.File)
}

type fileService struct {
	fileRepo    repository.FileRepository
	storage     storage.Storage
	maxFileSize int64
	clock       clock.Clock
	logger      *slog.Logger
}

// NewFileService creates a new file service instance
func NewFileService(
	fileRepo repository.FileRepository,
	store storage.Storage,
	maxFileSize int64,
	clk clock.Clock,
	logger *slog.Logger,
) FileService {
	return &fileService{
		fileRepo:    fileRepo,
		storage:     store,
		maxFileSize: maxFileSize,
		clock:       clk,
		logger:      logger,
	}
}

func (s *fileService) Upload(ctx context.Context, input UploadInput) (*models.File, error) {
	if s.maxFileSize > 0 && input.Size > s.maxFileSize {
		s.logger.Warn("⚠️ [FileService] Upload too large", "name", input.Name, "size", input.Size)
		return nil, ErrFileTooLarge
	}

	if !strings.HasPrefix(input.ContentType, "image/") {
		s.logger.Warn("⚠️ [FileService] Unsupported upload", "name", input.Name, "content_type", input.ContentType)
		return nil, ErrUnsupportedFileType
	}

	key := storage.NewKey(input.Name, s.clock.Now())
	if err := s.storage.Put(ctx, key, input.Body, input.Size, input.ContentType); err != nil {
		s.logger.Error("❌ [FileService] Failed to store upload", "key", key, "error", err)
		return nil, err
	}

	file := &models.File{Name: input.Name, Path: key}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		s.logger.Error("❌ [FileService] Failed to save file record", "key", key, "error", err)
		return nil, err
	}

	s.Decorate(file)
	s.logger.Info("📁 [FileService] File uploaded", "file_id", file.ID, "key", key)
	return file, nil
}

func (s *fileService) Find(ctx context.Context, fileID uint) (*models.File, error) {
	file, err := s.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	s.Decorate(file)
	return file, nil
}

// Decorate fills in the public URL of file.
func (s *fileService) Decorate(file *models.File) {
	if file == nil {
		return
	}
	file.URL = s.storage.URL(file.Path)
}
