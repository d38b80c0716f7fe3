package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
	"github.com/sahelexpress/colis_backend/internal/dto"
)

// CaisseReaderSvc defines read operations over registers and their ledgers.
type CaisseReaderSvc interface {
	// GetRegister retrieves a register by ID.
	GetRegister(ctx context.Context, registerID string) (*domain.CashRegister, error)

	// ListRegisters retrieves every register.
	ListRegisters(ctx context.Context) ([]domain.CashRegister, error)

	// GetBalance derives a register's current balance from its full
	// movement log. Unknown registers yield apperrors.ErrNotFound.
	GetBalance(ctx context.Context, registerID string) (decimal.Decimal, error)

	// ListMovements retrieves a token-paginated page of a register's log.
	ListMovements(ctx context.Context, registerID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)
}

// CaisseWriterSvc defines the write operations of the movement recorder.
type CaisseWriterSvc interface {
	// EnsureAgencyRegisters creates a register for every agency lacking
	// one and returns the number created. Idempotent; run at startup.
	EnsureAgencyRegisters(ctx context.Context) (int, error)

	// SetRegisterActive toggles the register's active flag.
	SetRegisterActive(ctx context.Context, registerID string, active bool, userID string) error

	// RecordMovement validates and appends a movement to a register's log.
	RecordMovement(ctx context.Context, req dto.CreateMovementRequest, userID string) (*domain.CashMovement, error)
}

// CaisseSvcFacade combines the caisse service interfaces.
type CaisseSvcFacade interface {
	CaisseReaderSvc
	CaisseWriterSvc
}
