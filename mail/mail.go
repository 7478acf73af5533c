// Package mail renders and delivers transactional email. Delivery is either
// direct SMTP or a Kafka topic drained by the mailer worker.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/dcode-github/gharbari/backend/models"
)

// Message is one outgoing email. It is also the Kafka payload.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

//go:embed templates/*.html
var templateFS embed.FS

var (
	verifyTmpl  = parse("verify.html")
	resetTmpl   = parse("reset.html")
	inquiryTmpl = parse("inquiry.html")
)

func parse(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

// Renderer fills the email templates. Support is the help address shown in
// the footer.
type Renderer struct {
	Support string
	Now     func() time.Time
}

func (r Renderer) render(t *template.Template, data map[string]any) (string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	data["Support"] = r.Support
	data["Year"] = now().Year()

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

// Verification builds the welcome email, or the resend variant when resend is set.
func (r Renderer) Verification(to, name, token string, resend bool) (Message, error) {
	html, err := r.render(verifyTmpl, map[string]any{
		"Name":      name,
		"Token":     token,
		"Resend":    resend,
		"ExpiresIn": "24 hours",
	})
	if err != nil {
		return Message{}, err
	}
	subject := "Welcome to GharBari - Verify Your Email"
	if resend {
		subject = "GharBari - Email Verification Token"
	}
	return Message{To: to, Subject: subject, HTML: html}, nil
}

func (r Renderer) PasswordReset(to, token string) (Message, error) {
	html, err := r.render(resetTmpl, map[string]any{
		"Token":     token,
		"ExpiresIn": "1 hour",
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "GharBari - Password Reset Request", HTML: html}, nil
}

// Inquiry builds the admin notification for a new inquiry. p may be nil.
func (r Renderer) Inquiry(to string, in models.Inquiry, p *models.Property) (Message, error) {
	html, err := r.render(inquiryTmpl, map[string]any{
		"Name":     in.Name,
		"Email":    in.Email,
		"Phone":    in.Phone,
		"Message":  in.Message,
		"Property": p,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "New Property Inquiry", HTML: html}, nil
}

// LogSender only logs. It is used when no transport is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Message) error {
	slog.Info("Mail transport disabled, dropping message",
		slog.String("to", m.To),
		slog.String("subject", m.Subject))
	return nil
}
