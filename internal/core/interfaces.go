package core

import (
	"context"

	"github.com/cidade-conectada/reports-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	// GetByUserID retrieves the profile for a user, or a NotFound error.
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// EnsureExists creates the profile with the default role if it does not
	// already exist and returns the stored row either way. Concurrent calls
	// for the same user must all observe the same single row.
	EnsureExists(ctx context.Context, userID string) (*model.Profile, error)
}

// ReportRepository defines the interface for report data operations.
type ReportRepository interface {
	Insert(ctx context.Context, report *model.Report) (*model.Report, error)
	GetByID(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, opts *model.ReportListOptions) ([]*model.Report, error)

	// UpdateStatus transitions a report from expectedCurrent to next in a
	// single compare-and-set statement. Returns the updated report, a
	// NotFound error when the id is unknown, or a Conflict error when the
	// stored status no longer matches expectedCurrent.
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (*model.Report, error)

	// CountByStatus returns the number of reports currently in the given status.
	CountByStatus(ctx context.Context, status model.ReportStatus) (int64, error)
}

// UpdateStatusParams groups parameters for ReportRepository.UpdateStatus (≤3 params rule).
type UpdateStatusParams struct {
	ReportID        string
	ExpectedCurrent model.ReportStatus
	Next            model.ReportStatus
}

// StatusNotifier is told about committed status transitions. Delivery is
// best-effort and must never affect the outcome of the transition itself.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, change StatusChange)
}

// StatusChange describes one committed report status transition.
type StatusChange struct {
	ReportID string `json:"report_id"`
	AuthorID string `json:"author_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	ActorID  string `json:"actor_id"`
}
