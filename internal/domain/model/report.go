//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	apperrors "github.com/cidade-conectada/reports-api/internal/errors"
)

const maxReportDescriptionLen = 4000

// ReportStatus is the triage state of an incident report.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusResolved ReportStatus = "resolved"
	ReportStatusRejected ReportStatus = "rejected"
)

// Valid reports whether the status is one of the three supported states.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusResolved, ReportStatusRejected:
		return true
	default:
		return false
	}
}

// Next returns the successor in the fixed triage cycle
// pending -> resolved -> rejected -> pending. It is total: an unknown
// status maps back to pending rather than wedging the record.
func (s ReportStatus) Next() ReportStatus {
	switch s {
	case ReportStatusPending:
		return ReportStatusResolved
	case ReportStatusResolved:
		return ReportStatusRejected
	case ReportStatusRejected:
		return ReportStatusPending
	default:
		return ReportStatusPending
	}
}

// ParseReportStatus normalizes a status string and reports whether it is supported.
func ParseReportStatus(value string) (ReportStatus, bool) {
	status := ReportStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Report is a submitted incident record. Everything except Status is
// immutable after creation; AuthorID is set from the authenticated session,
// never from client input.
type Report struct {
	ID          string       `json:"id"          db:"id"`
	AuthorID    string       `json:"author_id"   db:"author_id"`
	Description string       `json:"description" db:"description"`
	PhotoRef    string       `json:"photo_ref"   db:"photo_ref"`
	Latitude    float64      `json:"latitude"    db:"latitude"`
	Longitude   float64      `json:"longitude"   db:"longitude"`
	Status      ReportStatus `json:"status"      db:"status"`
	CreatedAt   time.Time    `json:"created_at"  db:"created_at"`
}

// SubmitLocation is a latitude/longitude pair captured at submission time.
// Coordinates are pointers so an omitted or null coordinate is
// distinguishable from the zero point; their acquisition mechanics are an
// upstream concern, the core only validates presence.
type SubmitLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// SubmitReportRequest carries the fields of a citizen report submission.
// Location and its coordinates are pointers so that an omitted location is
// distinguishable from coordinates at the zero point.
type SubmitReportRequest struct {
	Description string          `json:"description"`
	PhotoRef    string          `json:"photo_ref"`
	Location    *SubmitLocation `json:"location"`
}

// Validate enforces the submission preconditions: non-empty description, a
// photo reference, and a location with both coordinates set. This is the
// single authoritative rule; failures name the missing field.
func (r *SubmitReportRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return apperrors.IncompleteSubmission("description", "description is required and cannot be empty")
	}
	if len(r.Description) > maxReportDescriptionLen {
		return apperrors.ValidationField("description", "description is too long")
	}
	if strings.TrimSpace(r.PhotoRef) == "" {
		return apperrors.IncompleteSubmission("photo_ref", "a photo reference is required")
	}
	if r.Location == nil {
		return apperrors.IncompleteSubmission("location", "a location is required")
	}
	if r.Location.Latitude == nil || r.Location.Longitude == nil {
		return apperrors.IncompleteSubmission("location", "both latitude and longitude are required")
	}
	return nil
}

// ReportListOptions controls filtering and paging for report listings.
// Notes:
//   - AuthorID scopes results to a single author; the service layer forces it
//     for non-admin callers.
//   - Status filters by triage state; nil means all statuses.
//   - Results are ordered created_at descending with id ascending tie-break.
type ReportListOptions struct {
	AuthorID *string
	Status   *ReportStatus
	Limit    int
	Offset   int
}

// StatusCounts holds per-status report totals for the admin dashboard.
type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Resolved int64 `json:"resolved"`
	Rejected int64 `json:"rejected"`
}

// Total returns the sum across all statuses.
func (c StatusCounts) Total() int64 { return c.Pending + c.Resolved + c.Rejected }
