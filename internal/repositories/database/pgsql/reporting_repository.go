package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for the read-only
// reconciliation aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetDailyCloseData sums a register's inflows and outflows over one day.
func (r *PgxReportingRepository) GetDailyCloseData(ctx context.Context, registerID string, from, to time.Time) (*portsrepo.DailyCloseData, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN kind <> 'DECAISSEMENT' THEN amount END), 0) AS entrees,
			COALESCE(SUM(CASE WHEN kind = 'DECAISSEMENT' THEN amount END), 0) AS sorties,
			COUNT(*) AS movement_count
		FROM cash_movements
		WHERE register_id = $1 AND movement_date BETWEEN $2 AND $3;
	`
	var data portsrepo.DailyCloseData
	err := r.Pool.QueryRow(ctx, query, registerID, from, to).Scan(&data.Entrees, &data.Sorties, &data.MovementCount)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query daily close for register "+registerID, err)
	}
	return &data, nil
}

// GetKindTotals sums a register's movements over a range, per kind.
// Kinds without movements are present with a zero total.
func (r *PgxReportingRepository) GetKindTotals(ctx context.Context, registerID string, from, to time.Time) (map[domain.MovementKind]decimal.Decimal, error) {
	query := `
		SELECT kind, COALESCE(SUM(amount), 0)
		FROM cash_movements
		WHERE register_id = $1 AND movement_date BETWEEN $2 AND $3
		GROUP BY kind;
	`
	rows, err := r.Pool.Query(ctx, query, registerID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query kind totals for register "+registerID, err)
	}
	defer rows.Close()

	totals := make(map[domain.MovementKind]decimal.Decimal, len(domain.MovementKinds))
	for _, kind := range domain.MovementKinds {
		totals[kind] = decimal.Zero
	}
	for rows.Next() {
		var kind string
		var total decimal.Decimal
		if err := rows.Scan(&kind, &total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan kind total row", err)
		}
		totals[domain.MovementKind(kind)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate kind total rows", err)
	}
	return totals, nil
}

// GetBalanceBefore folds the register's movements strictly before the
// given instant against its opening balance.
func (r *PgxReportingRepository) GetBalanceBefore(ctx context.Context, registerID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT r.opening_balance + COALESCE(SUM(
			CASE WHEN m.kind = 'DECAISSEMENT' THEN -m.amount ELSE m.amount END
		), 0)
		FROM cash_registers r
		LEFT JOIN cash_movements m
			ON m.register_id = r.register_id AND m.movement_date < $2
		WHERE r.register_id = $1
		GROUP BY r.register_id, r.opening_balance;
	`
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, registerID, before).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to query opening balance for register "+registerID, err)
	}
	return balance, nil
}

// GetAgencyReconciliationData groups validated payments by agency over a
// date range, walking payment -> invoice -> parcel -> agency.
func (r *PgxReportingRepository) GetAgencyReconciliationData(ctx context.Context, from, to time.Time) ([]domain.AgencyReconciliationRow, error) {
	query := `
		SELECT a.agency_id, a.name, COUNT(p.payment_id), COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN invoices i ON i.invoice_id = p.invoice_id
		JOIN parcels c ON c.parcel_id = i.parcel_id
		JOIN agencies a ON a.agency_id = c.agency_id
		WHERE p.status = $1 AND p.payment_date BETWEEN $2 AND $3
		GROUP BY a.agency_id, a.name
		ORDER BY a.name;
	`
	rows, err := r.Pool.Query(ctx, query, int(domain.PaymentValidated), from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query agency reconciliation", err)
	}
	defer rows.Close()

	result := make([]domain.AgencyReconciliationRow, 0)
	for rows.Next() {
		var row domain.AgencyReconciliationRow
		if err := rows.Scan(&row.AgencyID, &row.AgencyName, &row.PaymentCount, &row.TotalAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan agency reconciliation row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate agency reconciliation rows", err)
	}
	return result, nil
}
