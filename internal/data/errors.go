package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Profile repository sentinels.
	ErrProfileNotFound = errors.New("profile not found")

	// Report repository sentinels.
	ErrReportNotFound = errors.New("report not found")
	// ErrReportStatusConflict is returned when a compare-and-set status
	// update finds that the stored status no longer matches the expected one.
	ErrReportStatusConflict = errors.New("report status changed concurrently")
)
