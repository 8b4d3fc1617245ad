package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/go-user-query-service/pkg/mailer/templates"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	// Drop rejects without requeue: the message can never succeed.
	Drop
	// Retry rejects with requeue: delivery failed but may work later.
	Retry
)

var errNoContent = errors.New("job has neither template nor subject")

// Worker turns queued jobs into sent email.
type Worker struct {
	Sender      Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// Handle processes one raw queue message.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	if job.To == "" {
		w.Logger.Warn("email job without recipient")
		return Drop
	}
	job.EnsureRecipient()

	subject, text, html, err := render(job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Error("render email failed")
		return Drop
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("to", job.To).Warn("send email failed")
		return Retry
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return Ack
}

func render(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Subject == "" {
			return "", "", "", errNoContent
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("template %s: %w", job.Template, err)
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}
