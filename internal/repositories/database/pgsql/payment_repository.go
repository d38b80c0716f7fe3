package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
	"github.com/sahelexpress/colis_backend/internal/models"
	"github.com/sahelexpress/colis_backend/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
	registerRepo portsrepo.RegisterWriter
}

// newPgxPaymentRepository creates a new repository for payments and payment
// links. The register writer appends cash movements inside the same
// transaction as the payment and invoice mutations.
func newPgxPaymentRepository(pool *pgxpool.Pool, registerRepo portsrepo.RegisterWriter) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		registerRepo:   registerRepo,
	}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `
	payment_id, invoice_id, amount, change_given, mode, external_reference,
	payment_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.InvoiceID,
		&m.Amount,
		&m.ChangeGiven,
		&m.Mode,
		&m.ExternalReference,
		&m.PaymentDate,
		&m.Status,
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

// FindPaymentByID retrieves a payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	model, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query payment "+paymentID, err)
	}
	payment := mapping.ToDomainPayment(*model)
	return &payment, nil
}

// ListPaymentsByInvoiceID retrieves every payment recorded against an invoice.
func (r *PgxPaymentRepository) ListPaymentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payments for invoice "+invoiceID, err)
	}
	defer rows.Close()

	modelPayments := make([]models.Payment, 0)
	for rows.Next() {
		model, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		modelPayments = append(modelPayments, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate payment rows", err)
	}
	return mapping.ToDomainPaymentSlice(modelPayments), nil
}

// lockInvoice reads an invoice FOR UPDATE inside tx. The lock serializes
// concurrent payments against the same invoice.
func lockInvoice(ctx context.Context, tx pgx.Tx, invoiceID string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	model, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock invoice "+invoiceID, err)
	}
	return model, nil
}

func updateInvoiceSettlement(ctx context.Context, tx pgx.Tx, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET paid_amount = $2, status = $3, auto_validated = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1;
	`
	_, err := tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.PaidAmount,
		invoice.Status,
		invoice.AutoValidated,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+invoice.InvoiceID, err)
	}
	return nil
}

// SavePaymentAndSettle inserts the payment, settles the invoice and appends
// the inflow movement in one transaction. The remaining balance is
// re-verified under the row lock; a concurrent payment that committed first
// makes this one fail validation instead of over-paying the invoice. When a
// link claim is given, the link's PENDING->PAID flip joins the transaction,
// so a crash can never leave a paid link without its payment.
func (r *PgxPaymentRepository) SavePaymentAndSettle(ctx context.Context, payment domain.Payment, movement domain.CashMovement, claim *portsrepo.LinkClaim) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	invoice, err := lockInvoice(ctx, tx, payment.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == int(domain.StatusCancelled) {
		return nil, fmt.Errorf("invoice %s is cancelled: %w", invoice.InvoiceID, apperrors.ErrConflict)
	}

	remaining := invoice.AmountTTC.Sub(invoice.PaidAmount)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("invoice %s is already settled: %w", invoice.InvoiceID, apperrors.ErrValidation)
	}
	if payment.Amount.GreaterThan(remaining) {
		return nil, fmt.Errorf("payment exceeds remaining balance of invoice %s: %w", invoice.InvoiceID, apperrors.ErrValidation)
	}

	model := mapping.ToModelPayment(payment)
	insertQuery := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, insertQuery,
		model.PaymentID,
		model.InvoiceID,
		model.Amount,
		model.ChangeGiven,
		model.Mode,
		model.ExternalReference,
		model.PaymentDate,
		model.Status,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, fmt.Errorf("payment %s already exists: %w", model.PaymentID, apperrors.ErrDuplicate)
		}
		return nil, apperrors.NewAppError(500, "failed to insert payment "+model.PaymentID, err)
	}

	invoice.PaidAmount = invoice.PaidAmount.Add(payment.Amount)
	if invoice.PaidAmount.GreaterThanOrEqual(invoice.AmountTTC) && invoice.Status == int(domain.StatusProforma) {
		// Full payment settles the invoice; the flag records that the
		// transition was automatic, so a cancellation can undo it.
		invoice.Status = int(domain.StatusDefinitive)
		invoice.AutoValidated = true
	}
	invoice.LastUpdatedAt = payment.CreatedAt
	invoice.LastUpdatedBy = payment.CreatedBy

	if err := updateInvoiceSettlement(ctx, tx, invoice); err != nil {
		return nil, err
	}

	if err := r.registerRepo.SaveMovementInTx(ctx, tx, movement); err != nil {
		return nil, err
	}

	if claim != nil {
		if err := claimLinkInTx(ctx, tx, claim, payment); err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	settled := mapping.ToDomainInvoice(*invoice)
	return &settled, nil
}

// claimLinkInTx flips a link PENDING->PAID as a compare-and-set within tx.
// Losing the race to a concurrent settlement rolls back the whole payment.
func claimLinkInTx(ctx context.Context, tx pgx.Tx, claim *portsrepo.LinkClaim, payment domain.Payment) error {
	query := `
		UPDATE payment_links
		SET status = $3, paid_at = $4,
		    provider_metadata = COALESCE($5, provider_metadata),
		    last_updated_at = $6, last_updated_by = $7
		WHERE link_id = $1 AND status = $2;
	`
	tag, err := tx.Exec(ctx, query,
		claim.LinkID,
		string(domain.LinkPending),
		string(domain.LinkPaid),
		payment.CreatedAt,
		claim.Metadata,
		payment.CreatedAt,
		payment.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark payment link "+claim.LinkID+" paid", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment link %s is no longer pending: %w", claim.LinkID, apperrors.ErrDuplicate)
	}
	return nil
}

// CancelPaymentAndReverse marks a validated payment cancelled, shrinks the
// invoice's paid amount, reverts an automatic definitive transition when
// payments no longer cover the total, and appends the offsetting movement.
func (r *PgxPaymentRepository) CancelPaymentAndReverse(ctx context.Context, paymentID string, reversal domain.CashMovement, updatedBy string, updatedAt time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	paymentQuery := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 FOR UPDATE;`
	payment, err := scanPayment(tx.QueryRow(ctx, paymentQuery, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock payment "+paymentID, err)
	}
	if payment.Status == int(domain.PaymentCancelled) {
		return nil, fmt.Errorf("payment %s is already cancelled: %w", paymentID, apperrors.ErrConflict)
	}

	cancelQuery := `
		UPDATE payments
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1;
	`
	_, err = tx.Exec(ctx, cancelQuery, paymentID, int(domain.PaymentCancelled), updatedAt, updatedBy)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to cancel payment "+paymentID, err)
	}

	invoice, err := lockInvoice(ctx, tx, payment.InvoiceID)
	if err != nil {
		return nil, err
	}

	invoice.PaidAmount = invoice.PaidAmount.Sub(payment.Amount)
	if invoice.PaidAmount.IsNegative() {
		invoice.PaidAmount = decimal.Zero
	}
	// Only an automatic settlement is undone; an explicitly validated
	// invoice keeps its definitive status.
	if invoice.Status == int(domain.StatusDefinitive) && invoice.AutoValidated && invoice.PaidAmount.LessThan(invoice.AmountTTC) {
		invoice.Status = int(domain.StatusProforma)
		invoice.AutoValidated = false
	}
	invoice.LastUpdatedAt = updatedAt
	invoice.LastUpdatedBy = updatedBy

	if err := updateInvoiceSettlement(ctx, tx, invoice); err != nil {
		return nil, err
	}

	if err := r.registerRepo.SaveMovementInTx(ctx, tx, reversal); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	reverted := mapping.ToDomainInvoice(*invoice)
	return &reverted, nil
}

const paymentLinkColumns = `
	link_id, token, invoice_id, status, amount, provider, provider_metadata,
	paid_at, expires_at, created_at, created_by, last_updated_at, last_updated_by`

func scanPaymentLink(row pgx.Row) (*models.PaymentLink, error) {
	var m models.PaymentLink
	err := row.Scan(
		&m.LinkID,
		&m.Token,
		&m.InvoiceID,
		&m.Status,
		&m.Amount,
		&m.Provider,
		&m.ProviderMetadata,
		&m.PaidAt,
		&m.ExpiresAt,
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

// SaveLink persists a new payment link.
func (r *PgxPaymentRepository) SaveLink(ctx context.Context, link domain.PaymentLink) error {
	model := mapping.ToModelPaymentLink(link)
	query := `
		INSERT INTO payment_links (` + paymentLinkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.LinkID,
		model.Token,
		model.InvoiceID,
		model.Status,
		model.Amount,
		model.Provider,
		model.ProviderMetadata,
		model.PaidAt,
		model.ExpiresAt,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("payment link token collision: %w", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert payment link "+model.LinkID, err)
	}
	return nil
}

// FindLinkByToken retrieves a payment link by its public token.
func (r *PgxPaymentRepository) FindLinkByToken(ctx context.Context, token string) (*domain.PaymentLink, error) {
	query := `SELECT ` + paymentLinkColumns + ` FROM payment_links WHERE token = $1;`
	model, err := scanPaymentLink(r.Pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query payment link", err)
	}
	link := mapping.ToDomainPaymentLink(*model)
	return &link, nil
}

// ListLinksByInvoiceID retrieves every link created for an invoice.
func (r *PgxPaymentRepository) ListLinksByInvoiceID(ctx context.Context, invoiceID string) ([]domain.PaymentLink, error) {
	query := `SELECT ` + paymentLinkColumns + ` FROM payment_links WHERE invoice_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payment links for invoice "+invoiceID, err)
	}
	defer rows.Close()

	links := make([]domain.PaymentLink, 0)
	for rows.Next() {
		model, err := scanPaymentLink(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment link row", err)
		}
		links = append(links, mapping.ToDomainPaymentLink(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate payment link rows", err)
	}
	return links, nil
}

// UpdateLinkStatus transitions a link from one status to another as a
// compare-and-set. A stale `from` status yields ErrConflict.
func (r *PgxPaymentRepository) UpdateLinkStatus(ctx context.Context, linkID string, from, to domain.PaymentLinkStatus, paidAt *time.Time, metadata map[string]any, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE payment_links
		SET status = $3, paid_at = $4,
		    provider_metadata = COALESCE($5, provider_metadata),
		    last_updated_at = $6, last_updated_by = $7
		WHERE link_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, linkID, string(from), string(to), paidAt, metadata, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment link "+linkID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment link %s is no longer %s: %w", linkID, from, apperrors.ErrConflict)
	}
	return nil
}

// ExpireStaleLinks marks every pending link past its expiry as expired.
func (r *PgxPaymentRepository) ExpireStaleLinks(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE payment_links
		SET status = $1, last_updated_at = $2, last_updated_by = 'system'
		WHERE status = $3 AND expires_at < $2;
	`
	tag, err := r.Pool.Exec(ctx, query, string(domain.LinkExpired), now, string(domain.LinkPending))
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to expire stale payment links", err)
	}
	return tag.RowsAffected(), nil
}
