package httpx

import (
	"errors"
	"net/http"

	"github.com/cidade-conectada/reports-api/internal/domain/model"
	apperrors "github.com/cidade-conectada/reports-api/internal/errors"
	"github.com/cidade-conectada/reports-api/internal/service"
)

// ReportHandlers provides HTTP handlers for report lifecycle operations.
// All routes run behind the auth middleware, so the resolved caller is read
// from the request context.
type ReportHandlers struct {
	Svc *service.ReportService
}

const (
	maxReportListLimit = 100 // Maximum number of reports that can be requested in one call
)

// Create handles HTTP requests to submit a new report.
// POST /api/reports.
func (h *ReportHandlers) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthenticated("authentication required"))
		return
	}

	var req model.SubmitReportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := h.Svc.Submit(r.Context(), caller, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, report)
}

// List handles HTTP requests to list reports with pagination.
// Non-admin callers only ever see their own reports; admins may filter by
// status via ?status=pending|resolved|rejected|all.
// GET /api/reports.
func (h *ReportHandlers) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthenticated("authentication required"))
		return
	}

	limit, offset := ParseLimitOffset(r, 50, maxReportListLimit)
	opts := &model.ReportListOptions{Limit: limit, Offset: offset}

	if raw := r.URL.Query().Get("status"); raw != "" && raw != "all" {
		status, valid := model.ParseReportStatus(raw)
		if !valid {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be one of: pending, resolved, rejected, all"),
			})
			return
		}
		opts.Status = &status
	}

	reports, err := h.Svc.List(r.Context(), caller, opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"limit":   limit,
		"offset":  offset,
	})
}

// Advance handles HTTP requests to move a report to the next triage state.
// POST /api/reports/{id}/advance.
func (h *ReportHandlers) Advance(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthenticated("authentication required"))
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("report id is required")},
		)
		return
	}

	report, err := h.Svc.Advance(r.Context(), caller, id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// Stats handles HTTP requests for per-status report totals.
// GET /api/reports/stats.
func (h *ReportHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"pending":  counts.Pending,
		"resolved": counts.Resolved,
		"rejected": counts.Rejected,
		"total":    counts.Total(),
	})
}
