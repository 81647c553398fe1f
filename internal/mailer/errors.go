package mailer

import "errors"

var (
	ErrFailedToSendEmail = errors.New("failed to send email")
	ErrInvalidConfig     = errors.New("invalid mailer config")
	ErrInvalidRecipient  = errors.New("invalid recipient email address")
	ErrMissingSubject    = errors.New("email subject is required")
	ErrMissingBody       = errors.New("email body is required")
)
