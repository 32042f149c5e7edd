// Package config provides configuration loading and validation for
// simple-provision.
//
// Configuration comes from environment variables, read with cleanenv in
// the service binaries. This package holds the shared config structs,
// their converters into the types the services consume, and validation
// helpers with structured errors.
//
// Validation example:
//
//	func (c *WebhookConfig) Validate(env Environment) error {
//		return Validate(
//			func() ValidationErrors {
//				return CollectErrors(
//					RequireNonEmpty("webhook_secret", c.Secret),
//				)
//			},
//		)
//	}
//
// Environment detection uses APP_ENV (development, staging, production,
// test). Production tightens validation: a service refuses to start
// without a webhook secret.
package config
