package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/sahaya-relief/camp-api/pkg/config"
)

// Message is a rendered outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPSender builds a sender from configuration.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// Send dials the relay and delivers a single HTML message.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// LogSender records messages instead of sending them. Used when mail is disabled.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a sender that only logs.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the recipient and subject.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("mail delivery disabled, message not sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// CampCredentials is the data needed to tell a camp manager how to sign in.
type CampCredentials struct {
	CampName string
	CampID   string
	Email    string
	Password string
}

var credentialsTemplate = template.Must(template.New("credentials").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #2563eb;">Welcome to Sahaya, {{.CampName}}</h2>
  <p>Your relief camp has been registered. Use the credentials below to sign in to the camp manager portal.</p>
  <table style="border-collapse: collapse; margin: 16px 0;">
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Camp ID</strong></td><td>{{.CampID}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Email</strong></td><td>{{.Email}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Password</strong></td><td>{{.Password}}</td></tr>
  </table>
  <p>Please change this password after your first login.</p>
  <p>Regards,<br/>Sahaya Support</p>
</div>`))

// RenderCredentials builds the onboarding email for a newly created camp.
func RenderCredentials(c CampCredentials) (Message, error) {
	var buf bytes.Buffer
	if err := credentialsTemplate.Execute(&buf, c); err != nil {
		return Message{}, fmt.Errorf("render credentials email: %w", err)
	}
	return Message{
		To:      c.Email,
		Subject: fmt.Sprintf("Sahaya camp credentials for %s (%s)", c.CampName, c.CampID),
		HTML:    buf.String(),
	}, nil
}
