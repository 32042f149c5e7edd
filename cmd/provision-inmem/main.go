// Package main runs the provisioning service without a database or
// identity provider, using in-memory repositories. This is useful for:
// - Quick development and testing
// - Demo/prototype environments
// - Exercising the webhook API without infrastructure
//
// Note: All data is lost when the server stops. For production, use
// cmd/provision with PostgreSQL and a real identity provider.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-provision/pkg/config"
	"github.com/tendant/simple-provision/pkg/entitlement"
	"github.com/tendant/simple-provision/pkg/identity"
	"github.com/tendant/simple-provision/pkg/notification"
	"github.com/tendant/simple-provision/pkg/profile"
	"github.com/tendant/simple-provision/pkg/provision"
	"github.com/tendant/simple-provision/pkg/webhook"
)

type Config struct {
	AppConfig     app.AppConfig
	WebhookConfig config.WebhookConfig
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	slog.Info("Starting in-memory provisioning service (no database required)")
	slog.Info(strings.Repeat("=", 60))

	provider := identity.NewInMemoryProvider()
	profileService := profile.NewService(profile.NewInMemoryRepository())

	// Everything notifies through the log in this mode
	provisionService := provision.NewService(
		provider,
		profileService,
		entitlement.NewMapper(),
		provision.WithWelcomeDispatcher(notification.NewDispatcher(notification.NewLogNotifier())),
		provision.WithUpdateDispatcher(notification.NewDispatcher(notification.NewLogNotifier())),
	)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)

	webhook.Routes(server.R, webhook.NewHandle(provisionService), cfg.WebhookConfig.Secret)

	slog.Info("In-memory provisioning service ready")
	slog.Info("API Endpoints:")
	slog.Info("  POST /provision - payment webhook (json or form body)")
	if cfg.WebhookConfig.Secret == "" {
		slog.Info("  (webhook secret verification disabled: WEBHOOK_SECRET not set)")
	}
	slog.Info(strings.Repeat("=", 60))

	server.Run()
}
