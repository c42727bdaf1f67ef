package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
)

// MeetupFilter narrows a meetup listing. From/To bound the date inclusively.
type MeetupFilter struct {
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// MeetupRepository defines the interface for meetup data operations
type MeetupRepository interface {
	Create(ctx context.Context, meetup *models.Meetup) error
	FindByID(ctx context.Context, id uint) (*models.Meetup, error)
	FindByTitle(ctx context.Context, title string) (*models.Meetup, error)
	FindByDate(ctx context.Context, date time.Time) (*models.Meetup, error)
	Update(ctx context.Context, meetup *models.Meetup) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter MeetupFilter) ([]models.Meetup, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Meetup, error)
	ListSubscribed(ctx context.Context, userID uint, after time.Time) ([]models.Meetup, error)
}

type meetupRepository struct {
	db *gorm.DB
}

// NewMeetupRepository creates a new meetup repository instance
func NewMeetupRepository(db *gorm.DB) MeetupRepository {
	return &meetupRepository{db: db}
}

func (r *meetupRepository) Create(ctx context.Context, meetup *models.Meetup) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(meetup).Error, nil)
}

func (r *meetupRepository) FindByID(ctx context.Context, id uint) (*models.Meetup, error) {
	var meetup models.Meetup
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("File").
		First(&meetup, id).Error
	if err != nil {
		return nil, translate(err, ErrMeetupNotFound)
	}
	return &meetup, nil
}

func (r *meetupRepository) FindByTitle(ctx context.Context, title string) (*models.Meetup, error) {
	var meetup models.Meetup
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&meetup).Error; err != nil {
		return nil, translate(err, ErrMeetupNotFound)
	}
	return &meetup, nil
}

func (r *meetupRepository) FindByDate(ctx context.Context, date time.Time) (*models.Meetup, error) {
	var meetup models.Meetup
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&meetup).Error; err != nil {
		return nil, translate(err, ErrMeetupNotFound)
	}
	return &meetup, nil
}

func (r *meetupRepository) Update(ctx context.Context, meetup *models.Meetup) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(meetup)
	if result.Error != nil {
		return translate(result.Error, ErrMeetupNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrMeetupNotFound
	}
	return nil
}

// Delete removes the meetup together with its subscriptions.
func (r *meetupRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meetup_id = ?", id).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Meetup{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMeetupNotFound
		}
		return nil
	})
}

func (r *meetupRepository) List(ctx context.Context, filter MeetupFilter) ([]models.Meetup, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("File")

	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	meetups := make([]models.Meetup, 0)
	if err := query.Order("date ASC").Find(&meetups).Error; err != nil {
		return nil, err
	}
	return meetups, nil
}

func (r *meetupRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Meetup, error) {
	meetups := make([]models.Meetup, 0)
	err := r.db.WithContext(ctx).
		Preload("File").
		Where("user_id = ?", ownerID).
		Order("date ASC").
		Find(&meetups).Error
	if err != nil {
		return nil, err
	}
	return meetups, nil
}

// ListSubscribed returns meetups dated after the given time that userID is
// subscribed to, each carrying only that user's subscription rows.
func (r *meetupRepository) ListSubscribed(ctx context.Context, userID uint, after time.Time) ([]models.Meetup, error) {
	subscribed := r.db.Model(&models.Subscription{}).
		Select("meetup_id").
		Where("user_id = ?", userID)

	meetups := make([]models.Meetup, 0)
	err := r.db.WithContext(ctx).
		Preload("Subscriptions", "user_id = ?", userID).
		Preload("File").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Where("date > ?", after).
		Where("id IN (?)", subscribed).
		Order("date ASC").
		Find(&meetups).Error
	if err != nil {
		return nil, err
	}
	return meetups, nil
}
