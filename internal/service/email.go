package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/templui/carepledge/internal/markdown"
)

// NotificationSender delivers one message. Bodies are markdown.
type NotificationSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type EmailService struct {
	client    *resend.Client
	markdown  *markdown.Parser
	fromEmail string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail string, isDev bool, parser *markdown.Parser) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		markdown:  parser,
		fromEmail: fromEmail,
		isDev:     isDev,
	}
}

func (s *EmailService) Send(ctx context.Context, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
		Html:    s.markdown.HTML(body),
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "to", to, "subject", subject)
	}
	return err
}
