package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/clock"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/jobs"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/queue"
)

// SubscriptionService enforces the subscription rules
type SubscriptionService interface {
	Subscribe(ctx context.Context, callerID, meetupID uint) (*models.Subscription, error)
	ListUpcoming(ctx context.Context, callerID uint) ([]models.Meetup, error)
	Cancel(ctx context.Context, callerID, subscriptionID uint) error
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	meetupRepo       repository.MeetupRepository
	userRepo         repository.UserRepository
	files            FileService
	queue            queue.Queue
	clock            clock.Clock
	logger           *slog.Logger
}

// NewSubscriptionService creates a new subscription service instance
func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	meetupRepo repository.MeetupRepository,
	userRepo repository.UserRepository,
	files FileService,
	q queue.Queue,
	clk clock.Clock,
	logger *slog.Logger,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		meetupRepo:       meetupRepo,
		userRepo:         userRepo,
		files:            files,
		queue:            q,
		clock:            clk,
		logger:           logger,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, callerID, meetupID uint) (*models.Subscription, error) {
	meetup, err := s.meetupRepo.FindByID(ctx, meetupID)
	if err != nil {
		if errors.Is(err, repository.ErrMeetupNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if meetup.UserID == callerID {
		return nil, ErrSelfSubscription
	}

	if meetup.IsPast(s.clock.Now()) {
		return nil, ErrAlreadyPast
	}

	if _, err := s.subscriptionRepo.FindByUserAndMeetup(ctx, callerID, meetupID); err == nil {
		return nil, ErrDuplicateSubscription
	} else if !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, err
	}

	if _, err := s.subscriptionRepo.FindByUserAndDate(ctx, callerID, meetup.Date); err == nil {
		return nil, ErrTimeConflict
	} else if !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, err
	}

	subscriber, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	subscription := &models.Subscription{
		UserID:   callerID,
		MeetupID: meetupID,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateSubscription
		}
		s.logger.Error("❌ [SubscriptionService] Failed to create subscription", "error", err)
		return nil, err
	}

	s.logger.Info("🎟️ [SubscriptionService] Subscribed",
		"subscription_id", subscription.ID,
		"meetup_id", meetupID,
		"user_id", callerID,
	)

	s.notifyOwner(ctx, meetup, subscriber)
	return subscription, nil
}

// notifyOwner enqueues the new-subscriber mail. Failures never undo the
// subscription.
func (s *subscriptionService) notifyOwner(ctx context.Context, meetup *models.Meetup, subscriber *models.User) {
	payload := jobs.SubscriptionMailPayload{
		Meetup: jobs.MeetupInfo{
			ID:       meetup.ID,
			Title:    meetup.Title,
			Date:     meetup.Date,
			Location: meetup.Location,
		},
		Subscriber: jobs.Person{Name: subscriber.Name, Email: subscriber.Email},
	}
	if meetup.User != nil {
		payload.Owner = jobs.Person{Name: meetup.User.Name, Email: meetup.User.Email}
	}

	if err := s.queue.Enqueue(ctx, jobs.KindSubscriptionMail, payload); err != nil {
		s.logger.Error("❌ [SubscriptionService] Failed to enqueue notification",
			"meetup_id", meetup.ID,
			"error", err,
		)
	}
}

func (s *subscriptionService) ListUpcoming(ctx context.Context, callerID uint) ([]models.Meetup, error) {
	now := s.clock.Now()
	meetups, err := s.meetupRepo.ListSubscribed(ctx, callerID, now)
	if err != nil {
		s.logger.Error("❌ [SubscriptionService] Failed to list subscriptions", "user_id", callerID, "error", err)
		return nil, err
	}

	for i := range meetups {
		meetups[i].MarkPast(now)
		s.files.Decorate(meetups[i].File)
	}
	return meetups, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, callerID, subscriptionID uint) error {
	subscription, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return ErrNotFound
		}
		return err
	}

	if subscription.UserID != callerID {
		s.logger.Warn("⚠️ [SubscriptionService] Cancel by non-owner",
			"subscription_id", subscriptionID,
			"caller_id", callerID,
		)
		return ErrNotAuthorized
	}

	if err := s.subscriptionRepo.Delete(ctx, subscriptionID); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.logger.Info("🚫 [SubscriptionService] Subscription cancelled", "subscription_id", subscriptionID)
	return nil
}
