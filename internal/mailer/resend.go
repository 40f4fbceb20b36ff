package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Mailer wraps the Resend client. A disabled or key-less configuration
// yields an inert mailer whose Send always errors; the pipeline is
// expected to skip it entirely when mail is off.
type Mailer struct {
	client  *resend.Client
	enabled bool
	from    string
	replyTo string
	to      string
}

type Config struct {
	Enabled     bool
	APIKey      string
	FromName    string
	FromAddress string
	ToAddress   string
}

func New(cfg Config) *Mailer {
	if !cfg.Enabled || cfg.APIKey == "" {
		return &Mailer{}
	}

	return &Mailer{
		client:  resend.NewClient(cfg.APIKey),
		enabled: true,
		from:    fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress),
		replyTo: cfg.FromAddress,
		to:      cfg.ToAddress,
	}
}

func (m *Mailer) Enabled() bool {
	return m.enabled
}

// Send delivers one HTML email to the configured recipient.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody string) error {
	if !m.enabled {
		return fmt.Errorf("mailer is disabled")
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{m.to},
		ReplyTo: m.replyTo,
		Subject: subject,
		Html:    htmlBody,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}
