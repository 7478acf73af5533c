package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/metrics"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers over SMTP with STARTTLS when the server offers it.
type SMTPSender struct {
	cfg      SMTPConfig
	toText   *md.Converter
	dialTime time.Duration
	deadline time.Duration
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg:      cfg,
		toText:   md.NewConverter("", true, nil),
		dialTime: 8 * time.Second,
		deadline: 15 * time.Second,
	}
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	body, err := s.build(m)
	if err != nil {
		return errs.Internal("build email", err)
	}

	err = s.deliver(ctx, m.To, body)
	metrics.MailSent.WithLabelValues("smtp", metrics.Outcome(err)).Inc()
	if err != nil {
		slog.Error("SMTP delivery failed", slog.String("to", m.To), slog.String("error", err.Error()))
		return errs.Upstream("Failed to send email", err)
	}
	slog.Info("Mail sent", slog.String("to", m.To), slog.String("subject", m.Subject))
	return nil
}

// build renders a multipart/alternative message with a markdown text part
// generated from the HTML.
func (s *SMTPSender) build(m Message) ([]byte, error) {
	text, err := s.toText.ConvertString(m.HTML)
	if err != nil {
		return nil, fmt.Errorf("html to text: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	head := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + m.To,
		"Subject: " + m.Subject,
		"MIME-Version: 1.0",
		fmt.Sprintf(`Content-Type: multipart/alternative; boundary="%s"`, mw.Boundary()),
		"",
		"",
	}, "\r\n")
	buf.WriteString(head)

	for _, part := range []struct{ ctype, body string }{
		{`text/plain; charset="UTF-8"`, text},
		{`text/html; charset="UTF-8"`, m.HTML},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.ctype}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *SMTPSender) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))

	dialer := net.Dialer{Timeout: s.dialTime}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(s.deadline)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(envelopeAddress(s.cfg.From)); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// envelopeAddress strips a display name: "GharBari <no-reply@x.com>" -> "no-reply@x.com".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return strings.TrimSpace(from)
}
