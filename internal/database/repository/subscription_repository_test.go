package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/testutil"
)

func TestSubscriptionRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSubscriptionRepository(db)
	meetups := repository.NewMeetupRepository(db)
	ctx := t.Context()

	owner := testutil.CreateUser(t, db, "owner", "owner@example.com")
	guest := testutil.CreateUser(t, db, "guest", "guest@example.com")
	file := testutil.CreateFile(t, db, "files/a.png")
	date := time.Date(2031, time.February, 2, 18, 0, 0, 0, time.UTC)
	meetup := testutil.CreateMeetup(t, db, owner.ID, file.ID, "A", date)
	other := testutil.CreateMeetup(t, db, owner.ID, file.ID, "B", date.Add(time.Hour))

	subscription := &models.Subscription{UserID: guest.ID, MeetupID: meetup.ID}
	require.NoError(t, repo.Create(ctx, subscription))

	t.Run("one subscription per user and meetup", func(t *testing.T) {
		err := repo.Create(ctx, &models.Subscription{UserID: guest.ID, MeetupID: meetup.ID})
		assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	})

	t.Run("find by user and meetup", func(t *testing.T) {
		found, err := repo.FindByUserAndMeetup(ctx, guest.ID, meetup.ID)
		require.NoError(t, err)
		assert.Equal(t, subscription.ID, found.ID)

		_, err = repo.FindByUserAndMeetup(ctx, guest.ID, other.ID)
		assert.ErrorIs(t, err, repository.ErrSubscriptionNotFound)
	})

	t.Run("find by user and date", func(t *testing.T) {
		found, err := repo.FindByUserAndDate(ctx, guest.ID, date)
		require.NoError(t, err)
		require.NotNil(t, found.Meetup)
		assert.Equal(t, "A", found.Meetup.Title)

		_, err = repo.FindByUserAndDate(ctx, guest.ID, date.Add(time.Hour))
		assert.ErrorIs(t, err, repository.ErrSubscriptionNotFound)

		_, err = repo.FindByUserAndDate(ctx, owner.ID, date)
		assert.ErrorIs(t, err, repository.ErrSubscriptionNotFound)
	})

	t.Run("list subscribed meetups", func(t *testing.T) {
		listed, err := meetups.ListSubscribed(ctx, guest.ID, date.Add(-time.Minute))
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, meetup.ID, listed[0].ID)
		require.Len(t, listed[0].Subscriptions, 1)

		listed, err = meetups.ListSubscribed(ctx, guest.ID, date)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, subscription.ID))
		assert.ErrorIs(t, repo.Delete(ctx, subscription.ID), repository.ErrSubscriptionNotFound)

		_, err := repo.FindByID(ctx, subscription.ID)
		assert.ErrorIs(t, err, repository.ErrSubscriptionNotFound)
	})
}
