package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-shop/meridian-shop/internal/observability"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewWelcomeEmailTask builds the mail:send task greeting a new account.
func NewWelcomeEmailTask(to, name string) (*asynq.Task, error) {
	if name == "" {
		name = "there"
	}
	return NewSendEmailTask(SendEmailPayload{
		To:      to,
		Subject: "Welcome to Meridian Shop",
		Body:    fmt.Sprintf("Hi %s,\n\nYour account is ready. Happy shopping!\n\nThe Meridian Shop team", name),
	})
}

// Sender delivers a composed email message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendEmailJob processes TaskTypeSendEmail tasks.
type SendEmailJob struct {
	Sender  Sender
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewSendEmailJob initialises the send-email handler.
func NewSendEmailJob(sender Sender, logger *slog.Logger, metrics *observability.Metrics) *SendEmailJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendEmailJob{Sender: sender, Logger: logger, Metrics: metrics}
}

// Handle delivers one queued email.
func (j *SendEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.Metrics.RecordJob(TaskTypeSendEmail, "skipped")
		return asynq.SkipRetry
	}
	if err := j.Sender.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		j.Logger.Error("send email", slog.String("to", payload.To), slog.Any("error", err))
		j.Metrics.RecordJob(TaskTypeSendEmail, "error")
		return err
	}
	j.Logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	j.Metrics.RecordJob(TaskTypeSendEmail, "ok")
	return nil
}
