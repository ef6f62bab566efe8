package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cidade-conectada/reports-api/internal/core"
	"github.com/cidade-conectada/reports-api/internal/data"
	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	"github.com/cidade-conectada/reports-api/internal/domain/model"
	apperrors "github.com/cidade-conectada/reports-api/internal/errors"
)

// ReportServiceOptions groups dependencies for ReportService.
type ReportServiceOptions struct {
	Reports  core.ReportRepository
	Notifier core.StatusNotifier
	Logger   *slog.Logger
}

// ReportService owns the report lifecycle: submission, the status cycle, and
// role-scoped listing. Authorization happens before these methods run; they
// receive the already resolved caller.
type ReportService struct {
	reports  core.ReportRepository
	notifier core.StatusNotifier
	logger   *slog.Logger
}

// NewReportService constructs a new ReportService.
func NewReportService(opts ReportServiceOptions) *ReportService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		reports:  opts.Reports,
		notifier: opts.Notifier,
		logger:   logger.With("component", "report_service"),
	}
}

// Submit validates and stores a new report. The author is always the caller;
// client-supplied author fields do not exist on the request type.
func (s *ReportService) Submit(
	ctx context.Context,
	caller *ResolvedCaller,
	req *model.SubmitReportRequest,
) (*model.Report, error) {
	if req == nil {
		return nil, apperrors.IncompleteSubmission("body", "a submission body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	report, err := s.reports.Insert(ctx, &model.Report{
		AuthorID:    caller.Session.UserID,
		Description: strings.TrimSpace(req.Description),
		PhotoRef:    strings.TrimSpace(req.PhotoRef),
		Latitude:    *req.Location.Latitude,
		Longitude:   *req.Location.Longitude,
		Status:      model.ReportStatusPending,
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}

	s.logger.InfoContext(ctx, "report submitted",
		"report_id", report.ID, "author_id", report.AuthorID)
	return report, nil
}

// Advance moves a report one step around the fixed status cycle. The next
// state is computed from the observed current state and applied with a
// compare-and-set; when another transition lands in between, the operation
// re-reads and retries exactly once before giving up with a conflict.
func (s *ReportService) Advance(
	ctx context.Context,
	caller *ResolvedCaller,
	reportID string,
) (*model.Report, error) {
	if strings.TrimSpace(reportID) == "" {
		return nil, apperrors.NotFound("report not found")
	}

	const attempts = 2
	for i := 0; i < attempts; i++ {
		report, err := s.reports.GetByID(ctx, reportID)
		if err != nil {
			return nil, mapReportErr(err)
		}

		current := report.Status
		updated, err := s.reports.UpdateStatus(ctx, core.UpdateStatusParams{
			ReportID:        reportID,
			ExpectedCurrent: current,
			Next:            current.Next(),
		})
		if err == nil {
			s.logger.InfoContext(ctx, "report status advanced",
				"report_id", reportID, "from", current, "to", updated.Status,
				"actor_id", caller.Session.UserID)
			s.notifyChange(ctx, updated, current, caller.Session.UserID)
			return updated, nil
		}
		if !errors.Is(err, data.ErrReportStatusConflict) {
			return nil, mapReportErr(err)
		}
	}
	return nil, apperrors.Conflict("report status changed concurrently")
}

// List returns reports visible to the caller. Non-admin callers are pinned to
// their own reports regardless of the requested filter; admins may filter by
// status or see everything.
func (s *ReportService) List(
	ctx context.Context,
	caller *ResolvedCaller,
	opts *model.ReportListOptions,
) ([]*model.Report, error) {
	if opts == nil {
		opts = &model.ReportListOptions{}
	}

	if !caller.Role.Satisfies(domainauth.RoleAdmin) {
		// Scoping is enforced here, not in the handler, so no transport
		// surface can widen a non-admin listing. A non-admin listing is
		// filtered by authorship and nothing else.
		own := caller.Session.UserID
		opts.AuthorID = &own
		opts.Status = nil
	}

	reports, err := s.reports.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return reports, nil
}

// Stats gathers per-status totals for the admin dashboard. The three counts
// are independent queries, so they run concurrently.
func (s *ReportService) Stats(ctx context.Context) (*model.StatusCounts, error) {
	var counts model.StatusCounts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.reports.CountByStatus(gctx, model.ReportStatusPending)
		counts.Pending = n
		return err
	})
	g.Go(func() error {
		n, err := s.reports.CountByStatus(gctx, model.ReportStatusResolved)
		counts.Resolved = n
		return err
	})
	g.Go(func() error {
		n, err := s.reports.CountByStatus(gctx, model.ReportStatusRejected)
		counts.Rejected = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &counts, nil
}

func (s *ReportService) notifyChange(
	ctx context.Context,
	report *model.Report,
	from model.ReportStatus,
	actorID string,
) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyStatusChange(ctx, core.StatusChange{
		ReportID: report.ID,
		AuthorID: report.AuthorID,
		From:     string(from),
		To:       string(report.Status),
		ActorID:  actorID,
	})
}

// mapReportErr converts data-layer sentinels to transport-agnostic app errors.
func mapReportErr(err error) error {
	switch {
	case errors.Is(err, data.ErrReportNotFound):
		return apperrors.NotFound("report not found")
	case errors.Is(err, data.ErrReportStatusConflict):
		return apperrors.Conflict("report status changed concurrently")
	default:
		return apperrors.MapDBError(err)
	}
}
