package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"

	"github.com/Meetparmar40/tailors-track/pkg/account"
	accountapi "github.com/Meetparmar40/tailors-track/pkg/account/api"
	"github.com/Meetparmar40/tailors-track/pkg/client"
	"github.com/Meetparmar40/tailors-track/pkg/config"
	"github.com/Meetparmar40/tailors-track/pkg/customer"
	customerapi "github.com/Meetparmar40/tailors-track/pkg/customer/api"
	"github.com/Meetparmar40/tailors-track/pkg/measurement"
	measurementapi "github.com/Meetparmar40/tailors-track/pkg/measurement/api"
	"github.com/Meetparmar40/tailors-track/pkg/notification"
	"github.com/Meetparmar40/tailors-track/pkg/order"
	orderapi "github.com/Meetparmar40/tailors-track/pkg/order/api"
	"github.com/Meetparmar40/tailors-track/pkg/settings"
	settingsapi "github.com/Meetparmar40/tailors-track/pkg/settings/api"
	"github.com/Meetparmar40/tailors-track/pkg/workspace"
	workspaceapi "github.com/Meetparmar40/tailors-track/pkg/workspace/api"
)

type Config struct {
	DbConfig      config.DatabaseConfig
	AuthConfig    config.AuthConfig
	WebhookConfig config.WebhookConfig
	EmailConfig   config.EmailConfig
	AppConfig     app.AppConfig
}

// loadEnvFile loads environment variables from .env file if it exists
// Only sets variables that are not already set in the environment
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		slog.Error("Failed to get executable path", "error", err)
		return
	}

	execDir := filepath.Dir(execPath)
	envFile := filepath.Join(execDir, ".env")

	// Also check current working directory
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, err := os.Getwd()
		if err != nil {
			slog.Error("Failed to get current working directory", "error", err)
			return
		}
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Info("No .env file found", "path", envFile)
		return
	}

	slog.Info("Loading configuration from .env file", "path", envFile)

	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "error", err, "path", envFile)
		return
	}

	slog.Info("Configuration loaded from .env file successfully")
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	loadEnvFile()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	server := app.DefaultWithoutRoutes()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbURL := cfg.DbConfig.ToDatabaseURL()
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		slog.Error("Failed to create database pool", "error", err)
		os.Exit(-1)
	}
	defer pool.Close()

	// Accounts and provisioning webhook
	accountRepo := account.NewPostgresAccountRepository(pool)
	accountService := account.NewAccountService(accountRepo)
	if cfg.WebhookConfig.SigningSecret == "" && !cfg.WebhookConfig.AllowUnsigned {
		slog.Warn("ACCOUNT_WEBHOOK_SECRET is not set; account provisioning events will be rejected")
	}
	webhookHandle := accountapi.NewWebhookHandler(accountService, cfg.WebhookConfig.SigningSecret, cfg.WebhookConfig.AllowUnsigned)
	server.R.Mount("/webhook/accounts", accountapi.Handler(webhookHandle))

	// Workspace delegation store, service and resolver
	delegationRepo := workspace.NewPostgresDelegationRepository(pool)

	delegationOpts := []workspace.DelegationServiceOption{}
	if cfg.EmailConfig.Enabled {
		emailNotifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
			Host:     cfg.EmailConfig.Host,
			Port:     int(cfg.EmailConfig.Port),
			TLS:      cfg.EmailConfig.TLS,
			Username: cfg.EmailConfig.Username,
			Password: cfg.EmailConfig.Password,
			From:     cfg.EmailConfig.From,
		})
		if err != nil {
			slog.Error("Failed to create email notifier", "error", err)
			os.Exit(-1)
		}
		delegationOpts = append(delegationOpts, workspace.WithGrantNotifier(emailNotifier))
	}

	delegationService := workspace.NewDelegationService(delegationRepo, accountService, delegationOpts...)
	resolver := workspace.NewAccessResolver(delegationRepo)
	workspaceHandle := workspaceapi.NewHandle(delegationService, resolver)

	// Domain services
	customerRepo := customer.NewPostgresCustomerRepository(pool)
	customerService := customer.NewCustomerService(customerRepo)
	customerHandle := customerapi.NewHandle(customerService)

	settingsRepo := settings.NewPostgresSettingsRepository(pool)
	settingsService := settings.NewSettingsService(settingsRepo)
	settingsHandle := settingsapi.NewHandle(settingsService)

	orderRepo := order.NewPostgresOrderRepository(pool)
	orderService := order.NewOrderService(orderRepo, settingsService, customerService)
	orderHandle := orderapi.NewHandle(orderService)

	measurementRepo := measurement.NewPostgresMeasurementRepository(pool)
	measurementService := measurement.NewMeasurementService(measurementRepo, customerService)
	measurementHandle := measurementapi.NewHandle(measurementService)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.AuthConfig.JwtSecret), nil)

	// Authenticated routes: every request resolves its workspace scope
	// against the store, so revocations apply on the next call.
	server.R.Group(func(r chi.Router) {
		r.Use(client.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Use(client.AuthAccountMiddleware)

		r.Mount("/api/workspace", workspaceapi.Handler(workspaceHandle))

		r.Group(func(r chi.Router) {
			r.Use(client.WorkspaceScopeMiddleware(resolver))

			r.Mount("/api/customers/{customerID}/measurements", measurementapi.CustomerHandler(measurementHandle))
			r.Mount("/api/customers", customerapi.Handler(customerHandle))
			r.Mount("/api/orders", orderapi.Handler(orderHandle))
			r.Mount("/api/measurements", measurementapi.Handler(measurementHandle))
			r.Mount("/api/settings", settingsapi.Handler(settingsHandle))
		})
	})

	server.Run()
}
