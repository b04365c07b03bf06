package templates

import (
	"strings"
	"time"

	"github.com/alnnovate/academy/config"
)

// Option pattern
type Option func(*EmailData)

func WithCode(code string) Option { return func(d *EmailData) { d.Code = code } }

// AsResend marks a verification email as a re-sent code.
func AsResend() Option { return func(d *EmailData) { d.Resend = true } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04")
	}
}

// Brand carries the company details rendered into every email.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string
}

func BrandFromConfig(cfg *config.Config) Brand {
	return Brand{
		AppName:        cfg.AppName,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
	}
}

// NewBaseEmailData fills the shared fields from the brand, then applies options.
func NewBaseEmailData(b Brand, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:  strings.TrimSpace(name),
		Email: email,

		AppName:        b.AppName,
		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		LogoURL:        b.LogoURL,
		SupportURL:     b.SupportURL,
		PrivacyURL:     b.PrivacyURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewVerificationCodeData(b Brand, name, email, code string, opts ...Option) map[string]any {
	opts = append([]Option{WithCode(code)}, opts...)
	return ToMap(NewBaseEmailData(b, name, email, opts...))
}

func NewResetOTPData(b Brand, name, email, code string, expiresAt time.Time) map[string]any {
	return ToMap(NewBaseEmailData(b, name, email, WithCode(code), WithExpiresAt(expiresAt)))
}
