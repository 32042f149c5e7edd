package config

import (
	"github.com/tendant/simple-provision/pkg/notification"
)

// EmailConfig holds SMTP email configuration
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:""`
	Password string `env:"EMAIL_PASSWORD" env-default:""`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}

// ResendConfig holds Resend email provider configuration
type ResendConfig struct {
	APIKey string `env:"RESEND_API_KEY" env-default:""`
	From   string `env:"RESEND_FROM" env-default:"noreply@example.com"`
}

// IsConfigured returns true if Resend is configured
func (r ResendConfig) IsConfigured() bool {
	return r.APIKey != ""
}

// SendGridConfig holds SendGrid email provider configuration
type SendGridConfig struct {
	APIKey string `env:"SENDGRID_API_KEY" env-default:""`
	From   string `env:"SENDGRID_FROM" env-default:"noreply@example.com"`
}

// IsConfigured returns true if SendGrid is configured
func (s SendGridConfig) IsConfigured() bool {
	return s.APIKey != ""
}
