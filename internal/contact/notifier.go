package contact

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/smtp"
)

// Notifier is told about every accepted message.
type Notifier interface {
	Notify(ctx context.Context, visitorID string, m Message) error
}

// Notifiers calls each notifier and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, visitorID string, m Message) error {
	var errs []error
	for _, n := range ns {
		if err := n.Notify(ctx, visitorID, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SMTPNotifier mails the site owner a copy of each message.
type SMTPNotifier struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(host, port, user, pass, to string) *SMTPNotifier {
	return &SMTPNotifier{Host: host, Port: port, User: user, Pass: pass, To: to, send: smtp.SendMail}
}

var ErrSMTPNotConfigured = errors.New("SMTP credentials not configured")

func (n *SMTPNotifier) Notify(_ context.Context, _ string, m Message) error {
	if n.User == "" || n.Pass == "" || n.To == "" {
		return ErrSMTPNotConfigured
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", m.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.Name, m.Email, m.Message)

	msg := []byte("To: " + n.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + n.User + "\r\n" +
		"Reply-To: " + m.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", n.User, n.Pass, n.Host)
	if err := n.send(n.Host+":"+n.Port, auth, n.User, []string{n.To}, msg); err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}

	log.Printf("Email sent successfully from %s", m.Summary())
	return nil
}
