package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/alnnovate/academy/pkg/mailer/templates"
)

// Sender delivers a single email job.
type Sender interface {
	Send(ctx context.Context, job EmailJob) error
}

// Publisher is the queue side of QueueSender (helpers.RabbitPublisher).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Deliverer sends rendered content (Mailgun).
type Deliverer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// QueueSender hands jobs to the email worker through RabbitMQ.
type QueueSender struct {
	Publisher Publisher
}

func (s QueueSender) Send(ctx context.Context, job EmailJob) error {
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

// DirectSender renders in-process and sends through the provider.
type DirectSender struct {
	Deliverer Deliverer
}

func (s DirectSender) Send(ctx context.Context, job EmailJob) error {
	subject, text, html, err := job.Render()
	if err != nil {
		return err
	}
	return s.Deliverer.Send(ctx, job.To, subject, text, html)
}

// LogSender only logs jobs; local development without a mail provider.
type LogSender struct {
	Logger *logrus.Logger
}

func (s LogSender) Send(_ context.Context, job EmailJob) error {
	subject, _, _, err := job.Render()
	if err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{
		"to":       job.To,
		"template": job.Template,
		"subject":  subject,
		"code":     job.Data["Code"],
	}).Debug("email not sent (log transport)")
	return nil
}

// Notifier builds the account emails and hands them to a Sender.
type Notifier struct {
	Sender Sender
	Brand  mailtpl.Brand
}

func NewNotifier(sender Sender, brand mailtpl.Brand) *Notifier {
	return &Notifier{Sender: sender, Brand: brand}
}

func (n *Notifier) SendVerificationCode(ctx context.Context, to, name, code string, resend bool) error {
	var opts []mailtpl.Option
	if resend {
		opts = append(opts, mailtpl.AsResend())
	}
	return n.Sender.Send(ctx, EmailJob{
		To:       to,
		Template: mailtpl.VerificationCode,
		Data:     mailtpl.NewVerificationCodeData(n.Brand, name, to, code, opts...),
	})
}

func (n *Notifier) SendResetOTP(ctx context.Context, to, name, code string, expiresAt time.Time) error {
	return n.Sender.Send(ctx, EmailJob{
		To:       to,
		Template: mailtpl.ResetOTP,
		Data:     mailtpl.NewResetOTPData(n.Brand, name, to, code, expiresAt),
	})
}
