package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/cidade-conectada/reports-api/config"
	"github.com/cidade-conectada/reports-api/internal/data"
	"github.com/cidade-conectada/reports-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Reports  *service.ReportService
	Auth     *service.AuthService
	Gate     *service.AccessGate
	Notifier *service.WebhookNotifier

	// Repositories exposed for seeding and admin tooling.
	Profiles *data.ProfileRepo
	ReportDB *data.ReportRepo
}

// ServiceDependencies contains external dependencies for services.
type ServiceDependencies struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, auth, authorization, and the report
// lifecycle into a container. The webhook notifier is optional; a
// misconfigured notifier fails startup rather than silently dropping
// transitions.
func NewServices(deps ServiceDependencies) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	profileRepo := data.NewProfileRepo(deps.DB)
	reportRepo := data.NewReportRepo(deps.DB)

	authService := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if authService == nil {
		return ServiceContainer{}, errors.New("auth service could not be configured; sessions are required")
	}

	roleResolver := service.NewRoleResolver(service.RoleResolverOptions{
		Sessions: authService,
		Profiles: profileRepo,
	})
	gate := service.NewAccessGate(service.AccessGateOptions{Roles: roleResolver})

	notifier, err := buildStatusNotifier(cfg.Notify, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	reportOpts := service.ReportServiceOptions{
		Reports: reportRepo,
		Logger:  logger,
	}
	if notifier != nil {
		reportOpts.Notifier = notifier
	}
	reportService := service.NewReportService(reportOpts)

	return ServiceContainer{
		Reports:  reportService,
		Auth:     authService,
		Gate:     gate,
		Notifier: notifier,
		Profiles: profileRepo,
		ReportDB: reportRepo,
	}, nil
}

// buildStatusNotifier constructs the status-change webhook from config.
// Returns nil when no webhook URL is configured.
func buildStatusNotifier(cfg config.NotifyConfig, logger *slog.Logger) (*service.WebhookNotifier, error) {
	if cfg.WebhookURL == "" {
		return nil, nil
	}
	notifier, err := service.NewWebhookNotifier(service.WebhookNotifierOptions{
		URL:       cfg.WebhookURL,
		MatchExpr: cfg.MatchExpr,
		Client:    &http.Client{Timeout: cfg.Timeout},
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("status-change webhook enabled", "url", cfg.WebhookURL, "match_expr", cfg.MatchExpr != "")
	return notifier, nil
}

// RunServicesParams contains parameters for RunServicesWithShutdown.
type RunServicesParams struct {
	Context  context.Context
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until the
// context is canceled or a termination signal arrives, then shuts the
// server down gracefully.
func RunServicesWithShutdown(params RunServicesParams) error {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   params.Config,
		Services: params.Services,
		Logger:   logger,
	})
	if server == nil {
		return errors.New("HTTP server failed to start")
	}

	waitForShutdown(params.Context, logger)

	return ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Logger:  logger,
	})
}

// waitForShutdown blocks until the context is canceled or SIGINT/SIGTERM
// is received.
func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested", "reason", "context canceled")
	case sig := <-sigCh:
		logger.Info("shutdown requested", "reason", "signal", "signal", sig.String())
	}
}
