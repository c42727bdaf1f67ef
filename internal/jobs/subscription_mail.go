package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/mail"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/queue"
)

// KindSubscriptionMail notifies a meetup owner about a new subscriber.
const KindSubscriptionMail = "subscription_mail"

// SubscriptionMailPayload is the job body for KindSubscriptionMail.
type SubscriptionMailPayload struct {
	Meetup     MeetupInfo `json:"meetup"`
	Owner      Person     `json:"owner"`
	Subscriber Person     `json:"subscriber"`
}

type MeetupInfo struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
}

type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubscriptionMail renders and sends the new-subscriber mail.
type SubscriptionMail struct {
	mailer mail.Mailer
	logger *slog.Logger
}

// NewSubscriptionMail creates the job handler.
func NewSubscriptionMail(mailer mail.Mailer, logger *slog.Logger) *SubscriptionMail {
	return &SubscriptionMail{mailer: mailer, logger: logger}
}

func (h *SubscriptionMail) Kind() string {
	return KindSubscriptionMail
}

func (h *SubscriptionMail) Handle(ctx context.Context, job queue.Job) error {
	var payload SubscriptionMailPayload
	if err := job.Decode(&payload); err != nil {
		return err
	}

	if payload.Owner.Email == "" {
		return fmt.Errorf("subscription mail for meetup %d has no recipient", payload.Meetup.ID)
	}

	body, err := mail.Render("subscription", map[string]any{
		"OwnerName":       payload.Owner.Name,
		"SubscriberName":  payload.Subscriber.Name,
		"SubscriberEmail": payload.Subscriber.Email,
		"MeetupTitle":     payload.Meetup.Title,
		"MeetupDate":      payload.Meetup.Date,
		"MeetupLocation":  payload.Meetup.Location,
	})
	if err != nil {
		return err
	}

	h.logger.Debug("📨 [Jobs] Sending subscription mail",
		"meetup_id", payload.Meetup.ID,
		"to", payload.Owner.Email,
	)

	return h.mailer.Send(ctx, mail.Message{
		To:      payload.Owner.Email,
		ToName:  payload.Owner.Name,
		Subject: fmt.Sprintf("New subscription: %s", payload.Meetup.Title),
		Body:    body,
	})
}
