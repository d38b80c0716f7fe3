package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
	"github.com/sahelexpress/colis_backend/internal/models"
	"github.com/sahelexpress/colis_backend/internal/utils/mapping"
	"github.com/sahelexpress/colis_backend/internal/utils/pagination"
)

type PgxRegisterRepository struct {
	BaseRepository
}

// newPgxRegisterRepository creates a new repository for registers, their
// movement logs and the agency projection.
func newPgxRegisterRepository(pool *pgxpool.Pool) portsrepo.RegisterRepositoryWithTx {
	return &PgxRegisterRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxRegisterRepository implements portsrepo.RegisterRepositoryWithTx
var _ portsrepo.RegisterRepositoryWithTx = (*PgxRegisterRepository)(nil)

const registerColumns = `
	register_id, name, opening_balance, is_active, alert_threshold, agency_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRegister(row pgx.Row) (*models.CashRegister, error) {
	var m models.CashRegister
	err := row.Scan(
		&m.RegisterID,
		&m.Name,
		&m.OpeningBalance,
		&m.IsActive,
		&m.AlertThreshold,
		&m.AgencyID,
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

// SaveRegister persists a new register.
func (r *PgxRegisterRepository) SaveRegister(ctx context.Context, register domain.CashRegister) error {
	model := mapping.ToModelCashRegister(register)
	query := `
		INSERT INTO cash_registers (` + registerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.RegisterID,
		model.Name,
		model.OpeningBalance,
		model.IsActive,
		model.AlertThreshold,
		model.AgencyID,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("register for agency already exists: %w", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert register "+model.RegisterID, err)
	}
	return nil
}

// FindRegisterByID retrieves a register by its ID.
func (r *PgxRegisterRepository) FindRegisterByID(ctx context.Context, registerID string) (*domain.CashRegister, error) {
	query := `SELECT ` + registerColumns + ` FROM cash_registers WHERE register_id = $1;`
	model, err := scanRegister(r.Pool.QueryRow(ctx, query, registerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query register "+registerID, err)
	}
	register := mapping.ToDomainCashRegister(*model)
	return &register, nil
}

// FindRegisterByAgencyID retrieves the register owned by an agency.
func (r *PgxRegisterRepository) FindRegisterByAgencyID(ctx context.Context, agencyID string) (*domain.CashRegister, error) {
	query := `SELECT ` + registerColumns + ` FROM cash_registers WHERE agency_id = $1;`
	model, err := scanRegister(r.Pool.QueryRow(ctx, query, agencyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query register for agency "+agencyID, err)
	}
	register := mapping.ToDomainCashRegister(*model)
	return &register, nil
}

// ListRegisters retrieves every register.
func (r *PgxRegisterRepository) ListRegisters(ctx context.Context) ([]domain.CashRegister, error) {
	query := `SELECT ` + registerColumns + ` FROM cash_registers ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list registers", err)
	}
	defer rows.Close()

	registers := make([]domain.CashRegister, 0)
	for rows.Next() {
		model, err := scanRegister(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan register row", err)
		}
		registers = append(registers, mapping.ToDomainCashRegister(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate register rows", err)
	}
	return registers, nil
}

// GetRegisterBalance folds the whole movement log against the opening
// balance in a single aggregate. DECAISSEMENT debits, everything else credits.
func (r *PgxRegisterRepository) GetRegisterBalance(ctx context.Context, registerID string) (decimal.Decimal, error) {
	query := `
		SELECT r.opening_balance + COALESCE(SUM(
			CASE WHEN m.kind = 'DECAISSEMENT' THEN -m.amount ELSE m.amount END
		), 0)
		FROM cash_registers r
		LEFT JOIN cash_movements m ON m.register_id = r.register_id
		WHERE r.register_id = $1
		GROUP BY r.register_id, r.opening_balance;
	`
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, registerID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute balance for register "+registerID, err)
	}
	return balance, nil
}

// SetRegisterActive toggles the register's active flag.
func (r *PgxRegisterRepository) SetRegisterActive(ctx context.Context, registerID string, active bool, updatedBy string) error {
	query := `
		UPDATE cash_registers
		SET is_active = $2, last_updated_at = NOW(), last_updated_by = $3
		WHERE register_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, registerID, active, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update register "+registerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const movementInsertQuery = `
	INSERT INTO cash_movements (
		movement_id, register_id, kind, label, amount, movement_date, detail,
		created_at, created_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// SaveMovement appends a movement to a register's log.
func (r *PgxRegisterRepository) SaveMovement(ctx context.Context, movement domain.CashMovement) error {
	return saveMovement(ctx, r.Pool, movement)
}

// SaveMovementInTx appends a movement within an existing transaction.
func (r *PgxRegisterRepository) SaveMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.CashMovement) error {
	return saveMovement(ctx, tx, movement)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func saveMovement(ctx context.Context, db execer, movement domain.CashMovement) error {
	model := mapping.ToModelCashMovement(movement)
	_, err := db.Exec(ctx, movementInsertQuery,
		model.MovementID,
		model.RegisterID,
		model.Kind,
		model.Label,
		model.Amount,
		model.MovementDate,
		model.Detail,
		model.CreatedAt,
		model.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert movement "+model.MovementID, err)
	}
	return nil
}

// ListMovementsByRegisterID retrieves a token-paginated page of the
// register's movement log, newest first.
func (r *PgxRegisterRepository) ListMovementsByRegisterID(ctx context.Context, registerID string, limit int, nextToken *string) ([]domain.CashMovement, *string, error) {
	baseQuery := `
		SELECT movement_id, register_id, kind, label, amount, movement_date, detail,
		       created_at, created_by
		FROM cash_movements
		WHERE register_id = $1
	`
	args := []any{registerID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, decodeErr.Error())
		}
		baseQuery += ` AND (movement_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}

	// Fetch one extra row to decide whether another page exists.
	baseQuery += fmt.Sprintf(` ORDER BY movement_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, baseQuery, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list movements for register "+registerID, err)
	}
	defer rows.Close()

	modelMovements := make([]models.CashMovement, 0, limit+1)
	for rows.Next() {
		var m models.CashMovement
		err := rows.Scan(
			&m.MovementID,
			&m.RegisterID,
			&m.Kind,
			&m.Label,
			&m.Amount,
			&m.MovementDate,
			&m.Detail,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan movement row", err)
		}
		modelMovements = append(modelMovements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate movement rows", err)
	}

	var newNextToken *string
	if len(modelMovements) > limit {
		modelMovements = modelMovements[:limit]
		last := modelMovements[limit-1]
		token := pagination.EncodeToken(last.MovementDate, last.CreatedAt)
		newNextToken = &token
	}

	return mapping.ToDomainCashMovementSlice(modelMovements), newNextToken, nil
}

// FindAgencyByID retrieves the agency projection.
func (r *PgxRegisterRepository) FindAgencyByID(ctx context.Context, agencyID string) (*domain.Agency, error) {
	query := `SELECT agency_id, name, currency_code FROM agencies WHERE agency_id = $1;`
	var m models.Agency
	err := r.Pool.QueryRow(ctx, query, agencyID).Scan(&m.AgencyID, &m.Name, &m.CurrencyCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query agency "+agencyID, err)
	}
	agency := mapping.ToDomainAgency(m)
	return &agency, nil
}

// ListAgencyIDsWithoutRegister lists agencies that have no register yet.
func (r *PgxRegisterRepository) ListAgencyIDsWithoutRegister(ctx context.Context) ([]domain.Agency, error) {
	query := `
		SELECT a.agency_id, a.name, a.currency_code
		FROM agencies a
		LEFT JOIN cash_registers r ON r.agency_id = a.agency_id
		WHERE r.register_id IS NULL
		ORDER BY a.name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list agencies without register", err)
	}
	defer rows.Close()

	agencies := make([]domain.Agency, 0)
	for rows.Next() {
		var m models.Agency
		if err := rows.Scan(&m.AgencyID, &m.Name, &m.CurrencyCode); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan agency row", err)
		}
		agencies = append(agencies, mapping.ToDomainAgency(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate agency rows", err)
	}
	return agencies, nil
}
