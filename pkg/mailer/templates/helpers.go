package templates

import (
	"net/url"
	"strings"
	"time"

	"github.com/oksasatya/go-user-query-service/config"
)

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithVerifyURL(u string) Option { return func(d *EmailData) { d.VerifyURL = u } }

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,
		CompanyName:    cfg.CompanyName,
		AppName:        cfg.AppName,
		SupportURL:     cfg.SupportURL,
		VerifyURL:      cfg.VerifyEmailURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// VerifyLink appends the address to the configured verification page.
func VerifyLink(base, email string) string {
	if strings.TrimSpace(base) == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("email", email)
	u.RawQuery = q.Encode()
	return u.String()
}

func NewVerifyEmailData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	opts = append([]Option{WithVerifyURL(VerifyLink(cfg.VerifyEmailURL, email))}, opts...)
	return ToMap(NewBaseEmailData(cfg, VerifyEmail, name, email, email, opts...))
}
