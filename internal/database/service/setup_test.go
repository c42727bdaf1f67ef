package service_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/clock"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/testutil"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.Fixed
	queue *testutil.MockQueue
	redis *miniredis.Miniredis
	cache database.ListingCache

	meetupRepo       repository.MeetupRepository
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository

	files         service.FileService
	meetups       service.MeetupService
	subscriptions service.SubscriptionService

	owner *models.User
	guest *models.User
	file  *models.File
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	logger := testutil.TestLogger()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := database.NewRedisCacheWithClient(client, 24*time.Hour, logger)
	t.Cleanup(func() {
		_ = cache.Close()
		mr.Close()
	})

	f := &fixture{
		db:               db,
		clock:            clock.NewFixed(testutil.Now),
		queue:            new(testutil.MockQueue),
		redis:            mr,
		cache:            cache,
		meetupRepo:       repository.NewMeetupRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
		userRepo:         repository.NewUserRepository(db),
	}

	f.files = service.NewFileService(repository.NewFileRepository(db), testutil.NewMemoryStorage(), 1024, f.clock, logger)
	f.meetups = service.NewMeetupService(f.meetupRepo, f.files, cache, f.clock, logger)
	f.subscriptions = service.NewSubscriptionService(
		f.subscriptionRepo, f.meetupRepo, f.userRepo, f.files, f.queue, f.clock, logger,
	)

	f.owner = testutil.CreateUser(t, db, "owner", "owner@example.com")
	f.guest = testutil.CreateUser(t, db, "guest", "guest@example.com")
	f.file = testutil.CreateFile(t, db, "files/2030/06/15/cover.png")
	return f
}

// future returns an instant d after the fixture clock.
func (f *fixture) future(d time.Duration) time.Time {
	return f.clock.Now().Add(d)
}

func (f *fixture) createMeetup(t *testing.T, title string, date time.Time) *models.Meetup {
	t.Helper()

	meetup, err := f.meetups.Create(t.Context(), service.CreateMeetupInput{
		OwnerID:     f.owner.ID,
		Title:       title,
		Description: "A meetup about " + title,
		Location:    "Main street 1",
		Date:        date,
		FileID:      f.file.ID,
	})
	require.NoError(t, err)
	return meetup
}
