package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/jobs"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/testutil"
)

// conflictingSubscriptions reports a same-date subscription for every lookup,
// which the unique meetup date index makes impossible to set up in the store.
type conflictingSubscriptions struct {
	repository.SubscriptionRepository
}

func (conflictingSubscriptions) FindByUserAndDate(ctx context.Context, userID uint, date time.Time) (*models.Subscription, error) {
	return &models.Subscription{ID: 77, UserID: userID}, nil
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	t.Run("success enqueues the owner notification", func(t *testing.T) {
		f := newFixture(t)
		meetup := f.createMeetup(t, "Go Night", f.future(time.Hour))

		var payload jobs.SubscriptionMailPayload
		f.queue.On("Enqueue", jobs.KindSubscriptionMail, mock.AnythingOfType("jobs.SubscriptionMailPayload")).
			Run(func(args mock.Arguments) {
				payload = args.Get(1).(jobs.SubscriptionMailPayload)
			}).
			Return(nil).Once()

		subscription, err := f.subscriptions.Subscribe(t.Context(), f.guest.ID, meetup.ID)

		require.NoError(t, err)
		assert.NotZero(t, subscription.ID)
		assert.Equal(t, f.guest.ID, subscription.UserID)
		assert.Equal(t, meetup.ID, subscription.MeetupID)
		f.queue.AssertExpectations(t)

		assert.Equal(t, meetup.ID, payload.Meetup.ID)
		assert.Equal(t, "Go Night", payload.Meetup.Title)
		assert.True(t, payload.Meetup.Date.Equal(meetup.Date))
		assert.Equal(t, jobs.Person{Name: "owner", Email: "owner@example.com"}, payload.Owner)
		assert.Equal(t, jobs.Person{Name: "guest", Email: "guest@example.com"}, payload.Subscriber)
	})

	t.Run("second subscription is rejected", func(t *testing.T) {
		f := newFixture(t)
		meetup := f.createMeetup(t, "Go Night", f.future(time.Hour))
		f.queue.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

		_, err := f.subscriptions.Subscribe(t.Context(), f.guest.ID, meetup.ID)
		require.NoError(t, err)

		_, err = f.subscriptions.Subscribe(t.Context(), f.guest.ID, meetup.ID)
		assert.ErrorIs(t, err, service.ErrDuplicateSubscription)
		f.queue.AssertNumberOfCalls(t, "Enqueue", 1)
	})

	t.Run("owner cannot subscribe", func(t *testing.T) {
		f := newFixture(t)
		meetup := f.createMeetup(t, "Go Night", f.future(time.Hour))

		_, err := f.subscriptions.Subscribe(t.Context(), f.owner.ID, meetup.ID)

		assert.ErrorIs(t, err, service.ErrSelfSubscription)
		f.queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("past meetup", func(t *testing.T) {
		f := newFixture(t)
		meetup := f.createMeetup(t, "Go Night", f.future(time.Hour))
		f.clock.Advance(2 * time.Hour)

		_, err := f.subscriptions.Subscribe(t.Context(), f.guest.ID, meetup.ID)

		assert.ErrorIs(t, err, service.ErrAlreadyPast)
	})

	t.Run("unknown meetup", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.subscriptions.Subscribe(t.Context(), f.guest.ID, 999)

		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("time conflict", func(t *testing.T) {
		// The unique index on meetups.date keeps the store from ever holding a conflict, so the repository is wrapped.
		f := newFixture(t)
		meetup := f.createMeetup(t, "Go Night", f.future(time.Hour))
		subscriptions := service.NewSubscriptionService(
			conflictingSubscriptions{f.subscriptionRepo},
			f.meetupRepo, f.userRepo, f.files, f.queue, f.clock, testutil.TestLogger(),
		)

		_, err := subscriptions.Subscribe(t.Context(), f.guest.ID, meetup.ID)

		assert.ErrorIs(t, err, service.ErrTimeConflict)
		var count int64
		require.NoError(t, f.db.Model(&models.Subscription{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("enqueue failure keeps the subscription", func(t *testing.T) {
		f := newFixture(t)
		meetup := f.createMeetup(t, "Go Night", f.future(time.Hour))
		f.queue.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		subscription, err := f.subscriptions.Subscribe(t.Context(), f.guest.ID, meetup.ID)

		require.NoError(t, err)
		stored, err := f.subscriptionRepo.FindByID(t.Context(), subscription.ID)
		require.NoError(t, err)
		assert.Equal(t, meetup.ID, stored.MeetupID)
	})
}

func TestSubscriptionService_ListUpcoming(t *testing.T) {
	f := newFixture(t)
	later := f.createMeetup(t, "Later", f.future(48*time.Hour))
	sooner := f.createMeetup(t, "Sooner", f.future(24*time.Hour))
	f.createMeetup(t, "Not subscribed", f.future(36*time.Hour))
	past := testutil.CreateMeetup(t, f.db, f.owner.ID, f.file.ID, "Past", f.clock.Now().Add(-time.Hour))

	mine := testutil.Subscribe(t, f.db, f.guest.ID, later.ID)
	testutil.Subscribe(t, f.db, f.guest.ID, sooner.ID)
	testutil.Subscribe(t, f.db, f.guest.ID, past.ID)

	other := testutil.CreateUser(t, f.db, "other", "other@example.com")
	testutil.Subscribe(t, f.db, other.ID, later.ID)

	meetups, err := f.subscriptions.ListUpcoming(t.Context(), f.guest.ID)

	require.NoError(t, err)
	require.Len(t, meetups, 2)
	assert.Equal(t, "Sooner", meetups[0].Title)
	assert.Equal(t, "Later", meetups[1].Title)

	require.Len(t, meetups[1].Subscriptions, 1)
	assert.Equal(t, mine.ID, meetups[1].Subscriptions[0].ID)
	require.NotNil(t, meetups[1].User)
	assert.Equal(t, "owner", meetups[1].User.Name)
	assert.Empty(t, meetups[1].User.Email)
	assert.Equal(t, "http://files.test/"+f.file.Path, meetups[1].File.URL)
}

func TestSubscriptionService_Cancel(t *testing.T) {
	f := newFixture(t)
	meetup := f.createMeetup(t, "Go Night", f.future(time.Hour))
	subscription := testutil.Subscribe(t, f.db, f.guest.ID, meetup.ID)

	err := f.subscriptions.Cancel(t.Context(), f.owner.ID, subscription.ID)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	require.NoError(t, f.subscriptions.Cancel(t.Context(), f.guest.ID, subscription.ID))

	err = f.subscriptions.Cancel(t.Context(), f.guest.ID, subscription.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
