package webhook

import "errors"

var (
	ErrMissingEmail = errors.New("webhook payload is missing a contact email")
	ErrProcessing   = errors.New("failed to process webhook")
)
