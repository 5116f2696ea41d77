// Package email delivers transactional mail over SMTP.
package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/leaflist/leaflist-server/internal/config"
)

// Sender delivers messages. Satisfied by *Service and by test fakes.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
	SendVerificationEmail(ctx context.Context, to, name, verifyURL string) error
}

// Service sends mail through the configured SMTP relay. With no relay
// configured it degrades to logging the verification link, which keeps
// development setups working without a mail account.
type Service struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

// NewService creates an email service from SMTP configuration.
func NewService(cfg config.SMTPConfig, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

// Send delivers a single HTML message.
func (s *Service) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		if s.logger != nil {
			s.logger.Info("SMTP not configured, dropping outgoing mail",
				"to", to, "subject", subject)
		}
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Email sent", "to", to, "subject", subject)
	}
	return nil
}

// SendVerificationEmail sends the account verification message containing
// the signed verification link.
func (s *Service) SendVerificationEmail(ctx context.Context, to, name, verifyURL string) error {
	if s.cfg.Host == "" {
		if s.logger != nil {
			s.logger.Info("SMTP not configured, logging verification link instead",
				"to", to, "url", verifyURL)
		}
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}

	msg.Subject("Verify your Leaflist account")
	msg.SetBodyString(mail.TypeTextPlain, verificationText(name, verifyURL))
	msg.AddAlternativeString(mail.TypeTextHTML, verificationHTML(name, verifyURL))

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Verification email sent", "to", to)
	}
	return nil
}

// newClient builds an SMTP client from the configured relay settings.
func (s *Service) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

func verificationText(name, verifyURL string) string {
	return fmt.Sprintf(
		"Hi %s,\n\nWelcome to Leaflist. Confirm your email address by opening the link below:\n\n%s\n\nThe link expires after 48 hours. If you didn't create an account you can ignore this message.\n",
		name, verifyURL,
	)
}

func verificationHTML(name, verifyURL string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>Welcome to Leaflist. Confirm your email address by clicking the link below:</p><p><a href=%q>Verify my email</a></p><p>The link expires after 48 hours. If you didn't create an account you can ignore this message.</p>`,
		html.EscapeString(name), verifyURL,
	)
}
