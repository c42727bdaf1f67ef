package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRender_Subscription(t *testing.T) {
	body, err := Render("subscription", map[string]any{
		"OwnerName":       "owner",
		"SubscriberName":  "guest",
		"SubscriberEmail": "guest@example.com",
		"MeetupTitle":     "Go Night",
		"MeetupDate":      time.Date(2030, time.July, 1, 19, 30, 0, 0, time.UTC),
		"MeetupLocation":  "Istanbul",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hello owner,")
	assert.Contains(t, body, `guest (guest@example.com) just subscribed to your meetup "Go Night"`)
	assert.Contains(t, body, "Monday, 01 Jul 2030 at 19:30 UTC")
	assert.Contains(t, body, "Where: Istanbul")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	raw := string(compose("Meetapp <noreply@meetapp.com>", Message{
		To:      "owner@example.com",
		ToName:  "owner",
		Subject: "New subscription",
		Body:    "line one\nline two",
	}))

	assert.True(t, strings.HasPrefix(raw, "From: Meetapp <noreply@meetapp.com>\r\n"))
	assert.Contains(t, raw, "To: owner <owner@example.com>\r\n")
	assert.Contains(t, raw, "Subject: New subscription\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	assert.True(t, strings.HasSuffix(raw, "line one\r\nline two"))
}

func TestSMTPMailer_Send(t *testing.T) {
	cfg := &config.Config{
		MailFrom:     "Meetapp <noreply@meetapp.com>",
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUser:     "user",
		SMTPPassword: "pass",
	}
	mailer := NewSMTPMailer(cfg, testLogger())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	mailer.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		assert.NotNil(t, a)
		return nil
	}

	err := mailer.Send(t.Context(), Message{To: "owner@example.com", ToName: "owner", Subject: "Hi", Body: "Body"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@meetapp.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "To: owner <owner@example.com>")
}

func TestSMTPMailer_SendFailure(t *testing.T) {
	mailer := NewSMTPMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 25}, testLogger())
	mailer.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := mailer.Send(t.Context(), Message{To: "owner@example.com"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	mailer := NewSMTPMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 25}, testLogger())
	called := false
	mailer.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	assert.ErrorIs(t, mailer.Send(ctx, Message{To: "owner@example.com"}), context.Canceled)
	assert.False(t, called)
}

func TestNew(t *testing.T) {
	tests := []struct {
		driver  string
		want    any
		wantErr bool
	}{
		{"log", &LogMailer{}, false},
		{"", &LogMailer{}, false},
		{"smtp", &SMTPMailer{}, false},
		{"carrier-pigeon", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			mailer, err := New(&config.Config{MailDriver: tt.driver, SMTPHost: "localhost"}, testLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, mailer)
		})
	}
}

func TestLogMailer(t *testing.T) {
	mailer := NewLogMailer("noreply@meetapp.com", testLogger())
	assert.NoError(t, mailer.Send(t.Context(), Message{To: "owner@example.com"}))
}
