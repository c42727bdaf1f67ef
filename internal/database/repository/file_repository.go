package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
)

// FileRepository defines the interface for uploaded file records
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	FindByID(ctx context.Context, id uint) (*models.File, error)
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository instance
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *models.File) error {
	return translate(r.db.WithContext(ctx).Create(file).Error, nil)
}

func (r *fileRepository) FindByID(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, translate(err, ErrFileNotFound)
	}
	return &file, nil
}
