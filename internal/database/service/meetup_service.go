package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/clock"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
)

const (
	// ListingPageSize is the fixed number of meetups per listing page.
	ListingPageSize = 10

	// ListingCachePrefix prefixes every cached listing page key.
	ListingCachePrefix = "meetups:"

	dayKeyLayout = "02012006"
	noDayKey     = "0"
)

// CreateMeetupInput holds the fields of a new meetup
type CreateMeetupInput struct {
	OwnerID     uint
	Title       string
	Description string
	Location    string
	Date        time.Time
	FileID      uint
}

// UpdateMeetupInput holds a partial update. A nil field is left unchanged.
type UpdateMeetupInput struct {
	CallerID    uint
	MeetupID    uint
	Title       *string
	Description *string
	Location    *string
	Date        *time.Time
	FileID      *uint
}

// ListMeetupsInput selects a listing page, optionally restricted to one UTC day.
type ListMeetupsInput struct {
	Day  *time.Time
	Page int
}

// MeetupService enforces the meetup lifecycle rules
type MeetupService interface {
	Create(ctx context.Context, input CreateMeetupInput) (*models.Meetup, error)
	Update(ctx context.Context, input UpdateMeetupInput) (*models.Meetup, error)
	Cancel(ctx context.Context, callerID, meetupID uint) error
	Get(ctx context.Context, meetupID uint) (*models.Meetup, error)
	List(ctx context.Context, input ListMeetupsInput) ([]models.Meetup, error)
	ListOrganized(ctx context.Context, ownerID uint) ([]models.Meetup, error)
}

type meetupService struct {
	meetupRepo repository.MeetupRepository
	files      FileService
	cache      database.ListingCache
	clock      clock.Clock
	logger     *slog.Logger
}

// NewMeetupService creates a new meetup service instance
func NewMeetupService(
	meetupRepo repository.MeetupRepository,
	files FileService,
	cache database.ListingCache,
	clk clock.Clock,
	logger *slog.Logger,
) MeetupService {
	return &meetupService{
		meetupRepo: meetupRepo,
		files:      files,
		cache:      cache,
		clock:      clk,
		logger:     logger,
	}
}

// ListingCacheKey returns the cache key of a listing page.
func ListingCacheKey(day *time.Time, page int) string {
	dayKey := noDayKey
	if day != nil {
		dayKey = startOfDay(*day).Format(dayKeyLayout)
	}
	return fmt.Sprintf("%s%s:%d", ListingCachePrefix, dayKey, page)
}

func (s *meetupService) Create(ctx context.Context, input CreateMeetupInput) (*models.Meetup, error) {
	now := s.clock.Now()
	date := normalizeDate(input.Date)

	if !date.After(now) {
		return nil, ErrInvalidDate
	}

	if err := s.ensureTitleFree(ctx, input.Title, 0); err != nil {
		return nil, err
	}

	if err := s.ensureDateFree(ctx, date, 0); err != nil {
		return nil, err
	}

	if _, err := s.files.Find(ctx, input.FileID); err != nil {
		return nil, err
	}

	meetup := &models.Meetup{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Date:        date,
		FileID:      input.FileID,
		UserID:      input.OwnerID,
	}

	if err := s.meetupRepo.Create(ctx, meetup); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, s.duplicateCause(ctx, meetup)
		}
		s.logger.Error("❌ [MeetupService] Failed to create meetup", "error", err)
		return nil, err
	}

	s.invalidateListings(ctx)
	s.logger.Info("📅 [MeetupService] Meetup created", "meetup_id", meetup.ID, "owner_id", input.OwnerID)

	return s.reload(ctx, meetup), nil
}

func (s *meetupService) Update(ctx context.Context, input UpdateMeetupInput) (*models.Meetup, error) {
	meetup, err := s.find(ctx, input.MeetupID)
	if err != nil {
		return nil, err
	}

	if meetup.UserID != input.CallerID {
		s.logger.Warn("⚠️ [MeetupService] Update by non-owner", "meetup_id", meetup.ID, "caller_id", input.CallerID)
		return nil, ErrNotAuthorized
	}

	now := s.clock.Now()

	var newDate *time.Time
	if input.Date != nil {
		date := normalizeDate(*input.Date)
		if !date.After(now) {
			return nil, ErrInvalidDate
		}
		newDate = &date
	}

	if meetup.IsPast(now) {
		return nil, ErrAlreadyPast
	}

	if input.Title != nil && *input.Title != meetup.Title {
		if err := s.ensureTitleFree(ctx, *input.Title, meetup.ID); err != nil {
			return nil, err
		}
		meetup.Title = *input.Title
	}

	if newDate != nil && !newDate.Equal(meetup.Date) {
		if err := s.ensureDateFree(ctx, *newDate, meetup.ID); err != nil {
			return nil, err
		}
		meetup.Date = *newDate
	}

	if input.FileID != nil && *input.FileID != meetup.FileID {
		if _, err := s.files.Find(ctx, *input.FileID); err != nil {
			return nil, err
		}
		meetup.FileID = *input.FileID
		meetup.File = nil
	}

	if input.Description != nil {
		meetup.Description = *input.Description
	}
	if input.Location != nil {
		meetup.Location = *input.Location
	}
	meetup.UserID = input.CallerID

	if err := s.meetupRepo.Update(ctx, meetup); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, s.duplicateCause(ctx, meetup)
		}
		s.logger.Error("❌ [MeetupService] Failed to update meetup", "meetup_id", meetup.ID, "error", err)
		return nil, err
	}

	s.invalidateListings(ctx)
	s.logger.Info("✏️ [MeetupService] Meetup updated", "meetup_id", meetup.ID)

	return s.reload(ctx, meetup), nil
}

func (s *meetupService) Cancel(ctx context.Context, callerID, meetupID uint) error {
	meetup, err := s.find(ctx, meetupID)
	if err != nil {
		return err
	}

	if meetup.UserID != callerID {
		s.logger.Warn("⚠️ [MeetupService] Cancel by non-owner", "meetup_id", meetupID, "caller_id", callerID)
		return ErrNotAuthorized
	}

	if meetup.IsPast(s.clock.Now()) {
		return ErrAlreadyPast
	}

	if err := s.meetupRepo.Delete(ctx, meetupID); err != nil {
		if errors.Is(err, repository.ErrMeetupNotFound) {
			return ErrNotFound
		}
		s.logger.Error("❌ [MeetupService] Failed to delete meetup", "meetup_id", meetupID, "error", err)
		return err
	}

	s.invalidateListings(ctx)
	s.logger.Info("🗑️ [MeetupService] Meetup cancelled", "meetup_id", meetupID)
	return nil
}

func (s *meetupService) Get(ctx context.Context, meetupID uint) (*models.Meetup, error) {
	meetup, err := s.find(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	s.annotate(meetup, s.clock.Now())
	return meetup, nil
}

func (s *meetupService) List(ctx context.Context, input ListMeetupsInput) ([]models.Meetup, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	key := ListingCacheKey(input.Day, page)

	var meetups []models.Meetup
	if s.cache.Get(ctx, key, &meetups) {
		s.logger.Debug("⚡ [MeetupService] Listing cache hit", "key", key)
		s.annotateAll(meetups)
		return meetups, nil
	}

	filter := repository.MeetupFilter{
		Offset: ListingPageSize * (page - 1),
		Limit:  ListingPageSize,
	}
	if input.Day != nil {
		from := startOfDay(*input.Day)
		to := from.Add(24*time.Hour - time.Nanosecond)
		filter.From = &from
		filter.To = &to
	}

	meetups, err := s.meetupRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("❌ [MeetupService] Failed to list meetups", "key", key, "error", err)
		return nil, err
	}

	s.cache.Set(ctx, key, meetups, 0)
	s.annotateAll(meetups)
	return meetups, nil
}

func (s *meetupService) ListOrganized(ctx context.Context, ownerID uint) ([]models.Meetup, error) {
	meetups, err := s.meetupRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("❌ [MeetupService] Failed to list organized meetups", "owner_id", ownerID, "error", err)
		return nil, err
	}
	s.annotateAll(meetups)
	return meetups, nil
}

func (s *meetupService) find(ctx context.Context, meetupID uint) (*models.Meetup, error) {
	meetup, err := s.meetupRepo.FindByID(ctx, meetupID)
	if err != nil {
		if errors.Is(err, repository.ErrMeetupNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return meetup, nil
}

// reload returns the stored meetup with its owner and file, falling back to
// the given value when the read fails.
func (s *meetupService) reload(ctx context.Context, meetup *models.Meetup) *models.Meetup {
	if full, err := s.meetupRepo.FindByID(ctx, meetup.ID); err == nil {
		meetup = full
	}
	s.annotate(meetup, s.clock.Now())
	return meetup
}

func (s *meetupService) ensureTitleFree(ctx context.Context, title string, selfID uint) error {
	existing, err := s.meetupRepo.FindByTitle(ctx, title)
	if err != nil && !errors.Is(err, repository.ErrMeetupNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateTitle
	}
	return nil
}

func (s *meetupService) ensureDateFree(ctx context.Context, date time.Time, selfID uint) error {
	existing, err := s.meetupRepo.FindByDate(ctx, date)
	if err != nil && !errors.Is(err, repository.ErrMeetupNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateDate
	}
	return nil
}

// duplicateCause tells which unique index rejected a write that raced past
// the read checks.
func (s *meetupService) duplicateCause(ctx context.Context, meetup *models.Meetup) error {
	if err := s.ensureTitleFree(ctx, meetup.Title, meetup.ID); err != nil {
		return err
	}
	return ErrDuplicateDate
}

func (s *meetupService) invalidateListings(ctx context.Context) {
	if !s.cache.InvalidatePrefix(ctx, ListingCachePrefix) {
		s.logger.Warn("⚠️ [MeetupService] Listing cache invalidation failed")
	}
}

func (s *meetupService) annotate(meetup *models.Meetup, now time.Time) {
	meetup.MarkPast(now)
	s.files.Decorate(meetup.File)
}

func (s *meetupService) annotateAll(meetups []models.Meetup) {
	now := s.clock.Now()
	for i := range meetups {
		s.annotate(&meetups[i], now)
	}
}

// normalizeDate keeps meetup dates comparable across stores.
func normalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
