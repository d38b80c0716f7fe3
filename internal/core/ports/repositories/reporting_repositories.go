package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// DailyCloseData carries the raw aggregates of a point-de-caisse query.
type DailyCloseData struct {
	Entrees       decimal.Decimal
	Sorties       decimal.Decimal
	MovementCount int
}

// ReportingRepository defines the read-only aggregate queries of the
// reconciliation reporter. Date ranges are inclusive; callers pass
// end-of-day-truncated upper bounds.
type ReportingRepository interface {
	// GetDailyCloseData sums a register's inflows and outflows over one day.
	GetDailyCloseData(ctx context.Context, registerID string, from, to time.Time) (*DailyCloseData, error)

	// GetKindTotals sums a register's movements over a range, per kind.
	// Kinds without movements are present with a zero total.
	GetKindTotals(ctx context.Context, registerID string, from, to time.Time) (map[domain.MovementKind]decimal.Decimal, error)

	// GetBalanceBefore folds the register's movements strictly before the
	// given instant against its opening balance.
	GetBalanceBefore(ctx context.Context, registerID string, before time.Time) (decimal.Decimal, error)

	// GetAgencyReconciliationData groups validated payments by agency over
	// a date range.
	GetAgencyReconciliationData(ctx context.Context, from, to time.Time) ([]domain.AgencyReconciliationRow, error)
}
