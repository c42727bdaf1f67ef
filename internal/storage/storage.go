// Package storage keeps uploaded file bytes outside the database.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
)

// Storage stores objects by key and knows their public URL.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	URL(key string) string
}

// NewKey returns a unique object key for an upload named originalName,
// keeping its extension: files/YYYY/MM/DD/<uuid>.ext
func NewKey(originalName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(originalName))
	return fmt.Sprintf("files/%04d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}

// New returns the storage selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3Storage(ctx, cfg, logger)
	case "local", "":
		return NewLocalStorage(cfg.StorageLocalDir, cfg.AppURL+"/files", logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
