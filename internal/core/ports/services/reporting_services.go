package services

import (
	"context"
	"time"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// ReportingService defines the read-only reconciliation queries.
// Callers supply dates, not date-times; the service truncates the upper
// bound to end-of-day for inclusive boundaries.
type ReportingService interface {
	// PointDeCaisse produces the daily close of a register.
	PointDeCaisse(ctx context.Context, registerID string, day time.Time) (*domain.PointDeCaisse, error)

	// GrandesLignes summarizes a register over a date range, per kind,
	// with period-opening and period-closing balances.
	GrandesLignes(ctx context.Context, registerID string, from, to time.Time) (*domain.GrandesLignes, error)

	// AgencyReconciliation groups validated payments by agency over a range.
	AgencyReconciliation(ctx context.Context, from, to time.Time) (*domain.AgencyReconciliation, error)
}
