package mailer

import (
	"context"
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. With no host configured it
// degrades to logging the message, so local setups work without an SMTP
// account.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
}

func New(host string, port int, user, pass, from, fromName string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
	}
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.host == "" {
		log.Printf("SMTP not configured, skipping mail to %s (subject: %s)", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.fromName, m.from))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)

	// Retry with backoff: 1s, 2s, 4s.
	for attempt := 0; attempt < 3; attempt++ {
		if err := dialer.DialAndSend(msg); err != nil {
			delay := time.Duration(1<<attempt) * time.Second
			log.Printf("failed to send mail to %s (attempt %d): %v, retrying in %v", to, attempt+1, err, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("mail send cancelled: %w", ctx.Err())
			}
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to send mail to %s after 3 attempts", to)
}

// SendPasswordReset mails a reset link for the given token.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	body := fmt.Sprintf(`
		<p>We received a request to reset the password for your WSU Connect account.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>The link is valid for 30 minutes. If you did not request this, you can ignore this email.</p>`,
		resetURL)

	return m.Send(ctx, to, "Reset your WSU Connect password", body)
}
