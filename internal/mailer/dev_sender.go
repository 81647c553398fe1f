package mailer

import (
	"context"
	"log/slog"
)

// DevSender implements EmailSender for local development. It logs the
// message instead of sending it, so webhook flows can be exercised end to
// end without a Postmark account. Credentials are never logged.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a log-only email sender.
func NewDevSender(log *slog.Logger) EmailSender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{log: log}
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	d.log.InfoContext(ctx, "dev mailer: email suppressed",
		slog.String("send_to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag))
	return nil
}
