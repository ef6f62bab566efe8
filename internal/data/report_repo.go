package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cidade-conectada/reports-api/internal/core"
	"github.com/cidade-conectada/reports-api/internal/data/pgxutil"
	"github.com/cidade-conectada/reports-api/internal/domain/model"
)

// ReportRepo provides database operations for incident reports.
type ReportRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewReportRepo creates a new ReportRepo with real time provider.
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewReportRepoWithTimeProvider creates a new ReportRepo with a custom time provider (useful for tests).
func NewReportRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ReportRepo {
	return &ReportRepo{DB: db, timeProvider: tp}
}

// Insert stores a new report. ID and created_at come back from the database;
// the status defaults to pending when unset.
func (r *ReportRepo) Insert(ctx context.Context, report *model.Report) (*model.Report, error) {
	if report == nil {
		return nil, errors.New("report is required")
	}

	status := report.Status
	if status == "" {
		status = model.ReportStatusPending
	}

	var out model.Report
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, reportInsertQuery,
			report.AuthorID,
			strings.TrimSpace(report.Description),
			strings.TrimSpace(report.PhotoRef),
			report.Latitude,
			report.Longitude,
			status,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Report])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a report by ID.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	var out model.Report
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, reportGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Report])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report by ID: %w", err)
	}
	return &out, nil
}

// List retrieves reports matching the given filters. Results are ordered by
// created_at descending with id ascending as the deterministic tie-break.
func (r *ReportRepo) List(
	ctx context.Context,
	opts *model.ReportListOptions,
) ([]*model.Report, error) {
	if opts == nil {
		opts = &model.ReportListOptions{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	query, args := buildReportListQuery(opts, limit, offset)

	var rowsOut []model.Report
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Report])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	res := make([]*model.Report, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateStatus performs the compare-and-set status transition in one
// statement: the row only changes when its stored status still matches the
// expected one. On zero rows affected a follow-up read distinguishes an
// unknown report from a lost race.
func (r *ReportRepo) UpdateStatus(
	ctx context.Context,
	params core.UpdateStatusParams,
) (*model.Report, error) {
	var out model.Report
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, reportUpdateStatusQuery,
			params.ReportID, params.ExpectedCurrent, params.Next)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Report])
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		// The CAS matched nothing. Check existence to pick the right error.
		existsRows, qerr := conn.Query(ctx, reportExistsQuery, params.ReportID)
		if qerr != nil {
			return qerr
		}
		defer existsRows.Close()
		if _, cerr := pgx.CollectOneRow(existsRows, pgx.RowTo[string]); cerr != nil {
			if errors.Is(cerr, pgx.ErrNoRows) {
				return ErrReportNotFound
			}
			return cerr
		}
		return ErrReportStatusConflict
	})
	if err != nil {
		if errors.Is(err, ErrReportNotFound) || errors.Is(err, ErrReportStatusConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	return &out, nil
}

// CountByStatus returns the number of reports currently in the given status.
func (r *ReportRepo) CountByStatus(
	ctx context.Context,
	status model.ReportStatus,
) (int64, error) {
	var count int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, reportCountByStatusQuery, status).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by status: %w", err)
	}
	return count, nil
}

// --- helpers ---

// buildReportListQuery assembles the listing query with optional author and
// status predicates. The predicate set is small and fixed, so the WHERE
// clause is built inline rather than through a general query builder.
func buildReportListQuery(opts *model.ReportListOptions, limit, offset int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + reportColumns + `
		FROM reports`)

	conds := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if opts.AuthorID != nil && strings.TrimSpace(*opts.AuthorID) != "" {
		args = append(args, strings.TrimSpace(*opts.AuthorID))
		conds = append(conds, "author_id = $"+strconv.Itoa(len(args)))
	}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString("\n\t\tWHERE " + strings.Join(conds, " AND "))
	}

	sb.WriteString("\n\t\tORDER BY created_at DESC, id ASC")
	args = append(args, limit)
	sb.WriteString("\n\t\tLIMIT $" + strconv.Itoa(len(args)))
	args = append(args, offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	return sb.String(), args
}

const reportColumns = "id, author_id, description, photo_ref, latitude, longitude, status, created_at"

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	reportInsertQuery = `
		INSERT INTO reports (
			author_id, description, photo_ref, latitude, longitude, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING ` + reportColumns

	reportGetByIDQuery = `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE id = $1`

	reportUpdateStatusQuery = `
		UPDATE reports
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING ` + reportColumns

	reportExistsQuery = `
		SELECT id FROM reports WHERE id = $1`

	reportCountByStatusQuery = `
		SELECT COUNT(*) FROM reports WHERE status = $1`
)
