package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
	"github.com/sahelexpress/colis_backend/internal/models"
	"github.com/sahelexpress/colis_backend/internal/utils/mapping"
	"github.com/sahelexpress/colis_backend/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoices and the
// parcel projection they are derived from.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `
	invoice_id, reference, parcel_id, amount_ht, amount_ttc, paid_amount,
	status, auto_validated, currency_code, exchange_rate, invoice_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.Reference,
		&m.ParcelID,
		&m.AmountHT,
		&m.AmountTTC,
		&m.PaidAmount,
		&m.Status,
		&m.AutoValidated,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.InvoiceDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveInvoice persists a new invoice. The unique constraints on parcel_id
// and reference are the authoritative guards against concurrent creations.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	model := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.InvoiceID,
		model.Reference,
		model.ParcelID,
		model.AmountHT,
		model.AmountTTC,
		model.PaidAmount,
		model.Status,
		model.AutoValidated,
		model.CurrencyCode,
		model.ExchangeRate,
		model.InvoiceDate,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			if strings.Contains(pgErr.ConstraintName, "reference") {
				return fmt.Errorf("invoice reference %s already taken: %w", model.Reference, apperrors.ErrConflict)
			}
			return fmt.Errorf("invoice for parcel %s already exists: %w", model.ParcelID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+model.InvoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	model, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query invoice "+invoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(*model)
	return &invoice, nil
}

// FindInvoiceByParcelID retrieves the invoice of a parcel, if any.
func (r *PgxInvoiceRepository) FindInvoiceByParcelID(ctx context.Context, parcelID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE parcel_id = $1;`
	model, err := scanInvoice(r.Pool.QueryRow(ctx, query, parcelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query invoice for parcel "+parcelID, err)
	}
	invoice := mapping.ToDomainInvoice(*model)
	return &invoice, nil
}

// MaxReferenceSuffix returns the highest numeric suffix among invoices
// whose reference starts with prefix, or 0 when none exist.
func (r *PgxInvoiceRepository) MaxReferenceSuffix(ctx context.Context, prefix string) (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(reference FROM $2) AS INTEGER)), 0)
		FROM invoices
		WHERE reference LIKE $1;
	`
	var maxSuffix int
	err := r.Pool.QueryRow(ctx, query, prefix+"%", len(prefix)+1).Scan(&maxSuffix)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to query reference counter for prefix "+prefix, err)
	}
	return maxSuffix, nil
}

// ListInvoices retrieves a token-paginated list of invoices, newest first.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	baseQuery := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []any{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, decodeErr.Error())
		}
		baseQuery += ` WHERE (invoice_date, created_at) < ($1, $2)`
		args = append(args, lastDate, lastCreatedAt)
	}

	baseQuery += fmt.Sprintf(` ORDER BY invoice_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, baseQuery, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list invoices", err)
	}
	defer rows.Close()

	modelInvoices := make([]models.Invoice, 0, limit+1)
	for rows.Next() {
		model, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		modelInvoices = append(modelInvoices, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate invoice rows", err)
	}

	var newNextToken *string
	if len(modelInvoices) > limit {
		modelInvoices = modelInvoices[:limit]
		last := modelInvoices[limit-1]
		token := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		newNextToken = &token
	}

	return mapping.ToDomainInvoiceSlice(modelInvoices), newNextToken, nil
}

// UpdateInvoiceStatus applies a lifecycle transition.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, autoValidated bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, auto_validated = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, invoiceID, int(status), autoValidated, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindParcelByID retrieves a parcel with its billable line items.
func (r *PgxInvoiceRepository) FindParcelByID(ctx context.Context, parcelID string) (*domain.Parcel, error) {
	parcelQuery := `SELECT parcel_id, reference, agency_id FROM parcels WHERE parcel_id = $1;`
	var parcel models.Parcel
	err := r.Pool.QueryRow(ctx, parcelQuery, parcelID).Scan(&parcel.ParcelID, &parcel.Reference, &parcel.AgencyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query parcel "+parcelID, err)
	}

	itemsQuery := `
		SELECT item_id, parcel_id, designation, unit_price, quantity,
		       packaging_fee, insurance_fee, agency_fee
		FROM parcel_items
		WHERE parcel_id = $1
		ORDER BY item_id;
	`
	rows, err := r.Pool.Query(ctx, itemsQuery, parcelID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for parcel "+parcelID, err)
	}
	defer rows.Close()

	items := make([]models.ParcelItem, 0)
	for rows.Next() {
		var item models.ParcelItem
		err := rows.Scan(
			&item.ItemID,
			&item.ParcelID,
			&item.Designation,
			&item.UnitPrice,
			&item.Quantity,
			&item.PackagingFee,
			&item.InsuranceFee,
			&item.AgencyFee,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan parcel item row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate parcel item rows", err)
	}

	result := mapping.ToDomainParcel(parcel, items)
	return &result, nil
}
