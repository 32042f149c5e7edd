package config

// WebhookConfig holds the shared-secret settings for the payment webhook
type WebhookConfig struct {
	Secret string `env:"WEBHOOK_SECRET" env-default:""`
}

// Validate checks the webhook configuration for the given environment.
// An empty secret disables verification, which is acceptable in dev but
// refused in production and staging.
func (c WebhookConfig) Validate(env Environment) error {
	if env != Production && env != Staging {
		return nil
	}
	return Validate(
		func() ValidationErrors {
			return CollectErrors(
				RequireNonEmpty("webhook_secret", c.Secret),
			)
		},
	)
}
