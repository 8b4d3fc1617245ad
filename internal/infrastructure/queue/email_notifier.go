// Package queue hands work to the email worker over RabbitMQ.
package queue

import (
	"context"
	"time"

	"github.com/oksasatya/go-user-query-service/config"
	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	"github.com/oksasatya/go-user-query-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-query-service/pkg/mailer/templates"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier enqueues a verification email for every new account.
type EmailNotifier struct {
	Pub     Publisher
	Cfg     *config.Config
	Timeout time.Duration
}

func NewEmailNotifier(pub Publisher, cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{Pub: pub, Cfg: cfg, Timeout: 3 * time.Second}
}

func (n *EmailNotifier) UserRegistered(ctx context.Context, u *entity.User) error {
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.VerifyEmail,
		Data:     mailtpl.NewVerifyEmailData(n.Cfg, u.Name, u.Email, mailtpl.WithTime(u.CreatedAt)),
	}
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}
	return n.Pub.PublishJSON(ctx, job)
}
