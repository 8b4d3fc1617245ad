package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-query-service/config"
	mailtpl "github.com/oksasatya/go-user-query-service/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	msgs []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, sent{to, subject, text, html})
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func encode(t *testing.T, job EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestWorkerRendersTemplate(t *testing.T) {
	s := &fakeSender{}
	w := &Worker{Sender: s, Logger: quietLogger()}
	cfg := &config.Config{AppName: "Accounts"}
	job := EmailJob{To: "alice@example.com", Template: mailtpl.VerifyEmail, Data: mailtpl.NewVerifyEmailData(cfg, "Alice", "alice@example.com")}

	assert.Equal(t, Ack, w.Handle(context.Background(), encode(t, job)))
	require.Len(t, s.msgs, 1)
	assert.Equal(t, "alice@example.com", s.msgs[0].to)
	assert.Equal(t, "Verify your email address for Accounts", s.msgs[0].subject)
	assert.NotEmpty(t, s.msgs[0].html)
}

func TestWorkerOutcomes(t *testing.T) {
	w := &Worker{Sender: &fakeSender{}, Logger: quietLogger()}
	ctx := context.Background()

	assert.Equal(t, Drop, w.Handle(ctx, []byte("{")))
	assert.Equal(t, Drop, w.Handle(ctx, encode(t, EmailJob{Subject: "hi"})))
	assert.Equal(t, Drop, w.Handle(ctx, encode(t, EmailJob{To: "a@example.com"})))
	assert.Equal(t, Drop, w.Handle(ctx, encode(t, EmailJob{To: "a@example.com", Template: "missing"})))
	assert.Equal(t, Ack, w.Handle(ctx, encode(t, EmailJob{To: "a@example.com", Subject: "hi", Text: "body"})))

	failing := &Worker{Sender: &fakeSender{err: errors.New("503")}, Logger: quietLogger()}
	assert.Equal(t, Retry, failing.Handle(ctx, encode(t, EmailJob{To: "a@example.com", Subject: "hi"})))
}

func TestEnsureRecipient(t *testing.T) {
	j := EmailJob{To: "a@example.com", Data: map[string]any{"Email": "b@example.com"}}
	j.EnsureRecipient()
	assert.Equal(t, "b@example.com", j.Data["Email"])
	assert.Equal(t, "a@example.com", j.Data["RecipientEmail"])
}
