package mailer

// Config holds mailer configuration. The Postmark tokens are optional so
// development environments can run with the log-only sender; SenderEmail
// establishes the from identity and LoginURL is where the welcome email
// points new users (the Chrome extension sign-in page).
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@listingdesk.app"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@listingdesk.app"`
	LoginURL             string `env:"CHROME_EXTENSION_URL"`
}
