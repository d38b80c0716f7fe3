package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// RegisterReader defines read operations for cash registers and their movement logs.
type RegisterReader interface {
	// FindRegisterByID retrieves a register by its unique identifier.
	FindRegisterByID(ctx context.Context, registerID string) (*domain.CashRegister, error)

	// FindRegisterByAgencyID retrieves the register owned by an agency.
	FindRegisterByAgencyID(ctx context.Context, agencyID string) (*domain.CashRegister, error)

	// ListRegisters retrieves every register.
	ListRegisters(ctx context.Context) ([]domain.CashRegister, error)

	// GetRegisterBalance folds the full movement log against the opening
	// balance. Returns apperrors.ErrNotFound when the register is unknown.
	GetRegisterBalance(ctx context.Context, registerID string) (decimal.Decimal, error)

	// ListMovementsByRegisterID retrieves a token-paginated page of the
	// register's movement log, newest first.
	ListMovementsByRegisterID(ctx context.Context, registerID string, limit int, nextToken *string) ([]domain.CashMovement, *string, error)
}

// RegisterWriter defines write operations for cash registers and movements.
// Movements are append-only: no update or delete operation exists.
type RegisterWriter interface {
	// SaveRegister persists a new register.
	SaveRegister(ctx context.Context, register domain.CashRegister) error

	// SetRegisterActive toggles the only mutable register field.
	SetRegisterActive(ctx context.Context, registerID string, active bool, updatedBy string) error

	// SaveMovement appends a movement to a register's log.
	SaveMovement(ctx context.Context, movement domain.CashMovement) error

	// SaveMovementInTx appends a movement within an existing transaction.
	SaveMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.CashMovement) error
}

// AgencyReader exposes the agency projection this core consumes.
type AgencyReader interface {
	// FindAgencyByID retrieves an agency projection.
	FindAgencyByID(ctx context.Context, agencyID string) (*domain.Agency, error)

	// ListAgencyIDsWithoutRegister lists agencies that have no register yet.
	ListAgencyIDsWithoutRegister(ctx context.Context) ([]domain.Agency, error)
}

// RegisterRepositoryFacade combines all register-related repository interfaces.
type RegisterRepositoryFacade interface {
	RegisterReader
	RegisterWriter
	AgencyReader
}

// RegisterRepositoryWithTx extends RegisterRepositoryFacade with transaction capabilities.
type RegisterRepositoryWithTx interface {
	RegisterRepositoryFacade
	TransactionManager
}
