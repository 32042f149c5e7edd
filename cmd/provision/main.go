package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-provision/pkg/config"
	"github.com/tendant/simple-provision/pkg/entitlement"
	"github.com/tendant/simple-provision/pkg/identity"
	"github.com/tendant/simple-provision/pkg/notification"
	"github.com/tendant/simple-provision/pkg/profile"
	"github.com/tendant/simple-provision/pkg/provision"
	"github.com/tendant/simple-provision/pkg/webhook"
)

type Config struct {
	AppConfig      app.AppConfig
	DbConfig       config.DatabaseConfig
	WebhookConfig  config.WebhookConfig
	IdentityConfig config.IdentityConfig
	EmailConfig    config.EmailConfig
	ResendConfig   config.ResendConfig
	SendGridConfig config.SendGridConfig
}

func main() {
	godotenv.Load()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	env := config.GetEnvironment()
	if err := cfg.WebhookConfig.Validate(env); err != nil {
		slog.Error("Invalid webhook config", "env", env, "err", err)
		os.Exit(-1)
	}
	if err := cfg.IdentityConfig.Validate(); err != nil {
		slog.Error("Invalid identity provider config", "err", err)
		os.Exit(-1)
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := cfg.DbConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	provider := identity.NewGoTrueProvider(cfg.IdentityConfig.BaseURL, cfg.IdentityConfig.ServiceKey)
	profileService := profile.NewService(profile.NewPostgresRepository(pool))

	welcomeChain, updateChain := buildNotifierChains(cfg, provider)

	provisionService := provision.NewService(
		provider,
		profileService,
		entitlement.NewMapper(),
		provision.WithWelcomeDispatcher(notification.NewDispatcher(welcomeChain...)),
		provision.WithUpdateDispatcher(notification.NewDispatcher(updateChain...)),
	)

	webhook.Routes(server.R, webhook.NewHandle(provisionService), cfg.WebhookConfig.Secret)

	server.Run()
}

// buildNotifierChains assembles the ordered fallback chains. Welcome
// emails get the identity provider reset link as a fallback; update
// emails do not, since the account already has working credentials.
// Both chains end with the log-only notifier, so a fully unconfigured
// email stack degrades to logging instead of failing requests.
func buildNotifierChains(cfg Config, provider identity.Provider) ([]notification.Notifier, []notification.Notifier) {
	var common []notification.Notifier

	if cfg.ResendConfig.IsConfigured() {
		common = append(common, notification.NewResendNotifier(cfg.ResendConfig.APIKey, cfg.ResendConfig.From))
	}
	if cfg.SendGridConfig.IsConfigured() {
		common = append(common, notification.NewSendGridNotifier(cfg.SendGridConfig.APIKey, cfg.SendGridConfig.From))
	}
	if cfg.EmailConfig.Host != "" && cfg.EmailConfig.Host != "localhost" {
		smtp, err := notification.NewEmailNotifier(cfg.EmailConfig.ToSMTPConfig())
		if err != nil {
			slog.Error("Failed creating SMTP notifier", "host", cfg.EmailConfig.Host, "err", err)
		} else {
			common = append(common, smtp)
		}
	}

	welcome := append([]notification.Notifier{}, common...)
	welcome = append(welcome, notification.NewResetLinkNotifier(provider), notification.NewLogNotifier())

	update := append([]notification.Notifier{}, common...)
	update = append(update, notification.NewLogNotifier())

	return welcome, update
}
