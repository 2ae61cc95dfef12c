package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"task-assignment.com/task-assignment/internal/logging"
)

type Email struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// MailerSendMailer delivers through the MailerSend API behind a circuit
// breaker.
type MailerSendMailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewMailerSendMailer(apiKey, fromEmail, fromName string) *MailerSendMailer {
	return &MailerSendMailer{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "mailersend",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("mail circuit breaker changed state")
			},
		}),
		timeout: 5 * time.Second,
	}
}

func (m *MailerSendMailer) Send(ctx context.Context, email Email) error {
	recipients := make([]mailersend.Recipient, 0, len(email.To))
	for _, to := range email.To {
		recipients = append(recipients, mailersend.Recipient{Email: to})
	}

	_, err := m.breaker.Execute(func() (interface{}, error) {
		sendCtx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		message := m.client.Email.NewMessage()
		message.SetFrom(m.from)
		message.SetRecipients(recipients)
		message.SetSubject(email.Subject)
		message.SetText(email.Text)

		return m.client.Email.Send(sendCtx, message)
	})
	if err != nil {
		return fmt.Errorf("mailersend: %w", err)
	}
	return nil
}

// LogMailer only logs outgoing mail. It is used when no mail provider is
// configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, email Email) error {
	logging.Logger.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
	}).Info("mail delivery disabled, message logged only")
	return nil
}
