package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/listingdesk/backend/internal/webhook"
)

const welcomeSubject = "Welcome! Your Account Credentials"

const welcomeTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Welcome to Our Service!</h2>
  <p>Hi {{.Name}},</p>
  <p>Thank you for your purchase! Your account has been created successfully.</p>

  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 5px; margin: 20px 0;">
    <h3 style="color: #333; margin-top: 0;">Your Login Credentials:</h3>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Password:</strong> {{.Password}}</p>
  </div>

  <p>You can now access our Chrome extension using these credentials.</p>
  {{if .LoginURL}}<p><a href="{{.LoginURL}}">Sign in here</a></p>{{end}}

  <p><strong>Important:</strong> Please keep these credentials secure and consider changing your password after first login.</p>

  <p>If you have any questions, please don't hesitate to contact our support team.</p>

  <p>Best regards,<br>The Team</p>
</div>`

var welcomeTmpl = template.Must(template.New("welcome").Parse(welcomeTemplate))

// WelcomeMailer renders and sends the credentials email for accounts
// created from a purchase webhook. It satisfies webhook.WelcomeSender.
type WelcomeMailer struct {
	sender   EmailSender
	loginURL string
}

// NewWelcomeMailer wraps an EmailSender with the welcome message.
func NewWelcomeMailer(sender EmailSender, loginURL string) *WelcomeMailer {
	if sender == nil {
		panic("mailer: email sender is required")
	}
	return &WelcomeMailer{sender: sender, loginURL: loginURL}
}

// SendWelcome delivers the credentials email. The password source is used
// as the message tag so support can tell generated credentials from
// user-chosen ones when triaging sign-in issues.
func (m *WelcomeMailer) SendWelcome(ctx context.Context, email, name, password string, source webhook.PasswordSource) error {
	var body bytes.Buffer
	err := welcomeTmpl.Execute(&body, struct {
		Name     string
		Email    string
		Password string
		LoginURL string
	}{Name: name, Email: email, Password: password, LoginURL: m.loginURL})
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   email,
		Subject:  welcomeSubject,
		BodyHTML: body.String(),
		BodyText: fmt.Sprintf("Welcome %s! Your login credentials: Email: %s, Password: %s", name, email, password),
		Tag:      "welcome-" + string(source),
	})
}
