package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	FindByID(ctx context.Context, id uint) (*models.Subscription, error)
	FindByUserAndMeetup(ctx context.Context, userID, meetupID uint) (*models.Subscription, error)
	FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*models.Subscription, error)
	Delete(ctx context.Context, id uint) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(subscription).Error, nil)
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uint) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := r.db.WithContext(ctx).First(&subscription, id).Error; err != nil {
		return nil, translate(err, ErrSubscriptionNotFound)
	}
	return &subscription, nil
}

func (r *subscriptionRepository) FindByUserAndMeetup(ctx context.Context, userID, meetupID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND meetup_id = ?", userID, meetupID).
		First(&subscription).Error
	if err != nil {
		return nil, translate(err, ErrSubscriptionNotFound)
	}
	return &subscription, nil
}

// FindByUserAndDate returns any subscription of userID whose meetup takes place at date.
func (r *subscriptionRepository) FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*models.Subscription, error) {
	sameDate := r.db.Model(&models.Meetup{}).
		Select("id").
		Where("date = ?", date)

	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Meetup").
		Where("user_id = ?", userID).
		Where("meetup_id IN (?)", sameDate).
		First(&subscription).Error
	if err != nil {
		return nil, translate(err, ErrSubscriptionNotFound)
	}
	return &subscription, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Subscription{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
