package config

// IdentityConfig holds the identity provider admin API configuration
type IdentityConfig struct {
	BaseURL    string `env:"IDENTITY_BASE_URL" env-default:"http://localhost:9999/auth/v1"`
	ServiceKey string `env:"IDENTITY_SERVICE_KEY" env-default:""`
}

// Validate checks the identity provider configuration
func (c IdentityConfig) Validate() error {
	return Validate(
		func() ValidationErrors {
			return CollectErrors(
				RequireValidURL("identity_base_url", c.BaseURL),
				RequireNonEmpty("identity_service_key", c.ServiceKey),
			)
		},
	)
}
