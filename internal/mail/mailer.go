package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// Sender dispatches transactional email. Implementations must not persist
// anything; sending is a side effect only.
type Sender interface {
	SendVerificationEmail(ctx context.Context, toEmail, token string) error
}

// SMTPMailer sends mail over authenticated SMTP.
type SMTPMailer struct {
	host    string
	port    int
	user    string
	pass    string
	from    string
	baseURL string
	timeout time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
	Timeout  time.Duration
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &SMTPMailer{
		host:    cfg.Host,
		port:    cfg.Port,
		user:    cfg.Username,
		pass:    cfg.Password,
		from:    cfg.From,
		baseURL: cfg.BaseURL,
		timeout: timeout,
	}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, toEmail, token string) error {
	link := VerificationLink(m.baseURL, token)
	subject := "Email verification"
	text := fmt.Sprintf("Open this link to verify your email:\n\n%s\n", link)
	htmlBody := verificationHTML(link)
	return m.send(ctx, toEmail, subject, text, htmlBody)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.pass),
	)
	if err != nil {
		return fmt.Errorf("smtp client init failed: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Error("smtp send failed", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("smtp send failed: %w", err)
	}

	slog.Info("mail sent", "to", to, "subject", subject)
	return nil
}

// VerificationLink builds the public URL a user clicks to verify their email.
func VerificationLink(baseURL, token string) string {
	return baseURL + "/api/auth/verify/" + token
}

func verificationHTML(link string) string {
	escaped := html.EscapeString(link)
	return `<p>Click the link to verify your email: <a href="` + escaped + `">` + escaped + `</a></p>`
}
