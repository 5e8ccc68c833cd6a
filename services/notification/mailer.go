package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"subercraftex/config"
	"subercraftex/logger"

	"gopkg.in/gomail.v2"
)

// Sender delivers one rendered job.
type Sender interface {
	Send(ctx context.Context, job Job) error
}

var ErrNoRecipient = errors.New("notification has no recipient")

// Mailer sends jobs as plain-text email over SMTP.
type Mailer struct {
	from    string
	dialer  *gomail.Dialer
	timeout time.Duration
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		from:    cfg.From,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		timeout: 15 * time.Second,
	}
}

// Message builds the gomail message for a job without sending it.
func (m *Mailer) Message(job Job) (*gomail.Message, error) {
	to := strings.TrimSpace(job.To)
	if to == "" {
		return nil, ErrNoRecipient
	}
	subject, body := Render(job)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg, nil
}

func (m *Mailer) Send(ctx context.Context, job Job) error {
	msg, err := m.Message(job)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.timeout):
		return context.DeadlineExceeded
	}
}

// LogSender only logs jobs; used when mail delivery is disabled.
type LogSender struct{}

func (LogSender) Send(_ context.Context, job Job) error {
	subject, _ := Render(job)
	logger.Info("notification (mail disabled)", "kind", job.Kind, "to", job.To, "subject", subject)
	return nil
}

// NewSender picks the SMTP mailer or the log sender from config.
func NewSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled {
		return LogSender{}
	}
	return NewMailer(cfg)
}
