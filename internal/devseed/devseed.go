package devseed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cidade-conectada/reports-api/config"
	"github.com/cidade-conectada/reports-api/internal/data"
	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	"github.com/cidade-conectada/reports-api/internal/domain/model"
)

// Services bundles the repositories needed for development seeding.
type Services struct {
	Profiles *data.ProfileRepo
	Reports  *data.ReportRepo
}

// Params contains everything Run needs.
type Params struct {
	Services Services
	Auth     config.AuthConfig
	Logger   *slog.Logger
}

// Run seeds a local development database: it promotes the configured dev
// user to admin and inserts a handful of sample reports so the list and
// stats endpoints have data on first boot. Seeding is idempotent; reports
// are only inserted into an empty table.
func Run(ctx context.Context, p Params) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "devseed")

	if err := seedAdminProfile(ctx, p.Services.Profiles, p.Auth.DevAuth.UserID, logger); err != nil {
		return err
	}
	return seedSampleReports(ctx, p.Services.Reports, logger)
}

func seedAdminProfile(ctx context.Context, profiles *data.ProfileRepo, userID string, logger *slog.Logger) error {
	if userID == "" {
		logger.WarnContext(ctx, "skipping admin seed: dev auth user id not configured")
		return nil
	}

	if _, err := profiles.EnsureExists(ctx, userID); err != nil {
		return fmt.Errorf("ensure dev profile: %w", err)
	}
	if _, err := profiles.SetRole(ctx, userID, domainauth.RoleAdmin); err != nil {
		return fmt.Errorf("promote dev profile: %w", err)
	}

	logger.InfoContext(ctx, "seeded admin profile", "user_id", userID)
	return nil
}

func seedSampleReports(ctx context.Context, reports *data.ReportRepo, logger *slog.Logger) error {
	existing, err := reports.List(ctx, &model.ReportListOptions{Limit: 1})
	if err != nil {
		return fmt.Errorf("check existing reports: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "skipping report seed", "reason", "reports already present")
		return nil
	}

	created := 0
	for _, seed := range sampleReports() {
		if _, err := reports.Insert(ctx, seed); err != nil {
			logger.ErrorContext(ctx, "seed report failed", "description", seed.Description, "error", err)
			continue
		}
		created++
	}

	logger.InfoContext(ctx, "seeded sample reports", "created", created)
	return nil
}

func sampleReports() []*model.Report {
	return []*model.Report{
		{
			AuthorID:    "seed-citizen-1",
			Description: "Buraco na rua em frente ao mercado",
			PhotoRef:    "seed/buraco-rua.jpg",
			Latitude:    -23.5505,
			Longitude:   -46.6333,
			Status:      model.ReportStatusPending,
		},
		{
			AuthorID:    "seed-citizen-1",
			Description: "Poste de luz queimado na praça central",
			PhotoRef:    "seed/poste-apagado.jpg",
			Latitude:    -23.5489,
			Longitude:   -46.6388,
			Status:      model.ReportStatusPending,
		},
		{
			AuthorID:    "seed-citizen-2",
			Description: "Lixo acumulado na esquina da Rua das Flores",
			PhotoRef:    "seed/lixo-esquina.jpg",
			Latitude:    -23.5612,
			Longitude:   -46.6562,
			Status:      model.ReportStatusResolved,
		},
		{
			AuthorID:    "seed-citizen-2",
			Description: "Semáforo piscando no cruzamento da avenida",
			PhotoRef:    "seed/semaforo.jpg",
			Latitude:    -23.5570,
			Longitude:   -46.6421,
			Status:      model.ReportStatusRejected,
		},
	}
}
