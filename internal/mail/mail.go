package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.UTC().Format("Monday, 02 Jan 2006 at 15:04 UTC")
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

// Message is a plain-text e-mail.
type Message struct {
	To      string // bare address
	ToName  string
	Subject string
	Body    string
}

func (m Message) header() string {
	if m.ToName == "" {
		return m.To
	}
	return fmt.Sprintf("%s <%s>", m.ToName, m.To)
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Render executes the named template with data.
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s failed: %w", name, err)
	}
	return buf.String(), nil
}

// New returns the mailer selected by cfg.MailDriver.
func New(cfg *config.Config, logger *slog.Logger) (Mailer, error) {
	switch cfg.MailDriver {
	case "smtp":
		return NewSMTPMailer(cfg, logger), nil
	case "log", "":
		return NewLogMailer(cfg.MailFrom, logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.MailDriver)
	}
}

// SMTPMailer sends mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	addr   string
	host   string
	from   string
	auth   smtp.Auth
	logger *slog.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates an SMTP mailer from configuration.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return &SMTPMailer{
		addr:   net.JoinHostPort(cfg.SMTPHost, strconv.FormatInt(cfg.SMTPPort, 10)),
		host:   cfg.SMTPHost,
		from:   cfg.MailFrom,
		auth:   auth,
		logger: logger,
		send:   smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	envelopeFrom := m.from
	if i := strings.LastIndex(envelopeFrom, "<"); i >= 0 {
		envelopeFrom = strings.Trim(envelopeFrom[i:], "<>")
	}

	if err := m.send(m.addr, m.auth, envelopeFrom, []string{msg.To}, compose(m.from, msg)); err != nil {
		m.logger.Error("❌ [Mail] SMTP delivery failed", "to", msg.To, "error", err)
		return fmt.Errorf("smtp send failed: %w", err)
	}

	m.logger.Info("📧 [Mail] Message sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func compose(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.header() + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	from   string
	logger *slog.Logger
}

// NewLogMailer creates a mailer for development.
func NewLogMailer(from string, logger *slog.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("📧 [Mail] Message (log driver)",
		"from", m.from,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
