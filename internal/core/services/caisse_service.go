package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
)

var (
	ErrCaisseIntrouvable = apperrors.NewAppError(404, "caisse introuvable", apperrors.ErrNotFound)
	ErrCaisseDesactivee  = apperrors.NewAppError(409, "caisse désactivée", apperrors.ErrConflict)
	ErrMontantInvalide   = apperrors.NewAppError(400, "montant invalide", apperrors.ErrValidation)
	ErrTypeMouvement     = apperrors.NewAppError(400, "type de mouvement invalide", apperrors.ErrValidation)
	ErrCaisseNonPrecisee = apperrors.NewAppError(400, "une caisse ou une agence doit être précisée", apperrors.ErrValidation)
)

const (
	systemUserID     = "system"
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// defaultAlertThreshold is the low-balance warning level assigned to
// registers created by the startup pass.
var defaultAlertThreshold = decimal.NewFromInt(10000)

// caisseService implements register and movement-log operations.
type caisseService struct {
	BaseService
	registerRepo portsrepo.RegisterRepositoryFacade
}

// NewCaisseService creates a new caisse service.
func NewCaisseService(registerRepo portsrepo.RegisterRepositoryFacade) portssvc.CaisseSvcFacade {
	return &caisseService{
		registerRepo: registerRepo,
	}
}

// Ensure caisseService implements the portssvc.CaisseSvcFacade interface
var _ portssvc.CaisseSvcFacade = (*caisseService)(nil)

// truncateToDay strips the time-of-day part; movements carry date granularity.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EnsureAgencyRegisters creates a register for every agency that has none.
// Safe to run on every startup.
func (s *caisseService) EnsureAgencyRegisters(ctx context.Context) (int, error) {
	agencies, err := s.registerRepo.ListAgencyIDsWithoutRegister(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to list agencies without register")
		return 0, fmt.Errorf("failed to list agencies without register: %w", err)
	}

	created := 0
	now := time.Now()
	for _, agency := range agencies {
		agencyID := agency.AgencyID
		register := domain.CashRegister{
			RegisterID:     uuid.NewString(),
			Name:           fmt.Sprintf("Caisse %s", agency.Name),
			OpeningBalance: decimal.Zero,
			IsActive:       true,
			AlertThreshold: defaultAlertThreshold,
			AgencyID:       &agencyID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     systemUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: systemUserID,
			},
		}
		if err := s.registerRepo.SaveRegister(ctx, register); err != nil {
			// Another instance may have created it between the list and the insert.
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			s.LogError(ctx, err, "failed to create agency register", slog.String("agency_id", agencyID))
			return created, fmt.Errorf("failed to create register for agency %s: %w", agencyID, err)
		}
		created++
	}

	if created > 0 {
		s.LogInfo(ctx, "created registers for agencies", slog.Int("count", created))
	}
	return created, nil
}

func (s *caisseService) GetRegister(ctx context.Context, registerID string) (*domain.CashRegister, error) {
	register, err := s.registerRepo.FindRegisterByID(ctx, registerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrCaisseIntrouvable
		}
		s.LogError(ctx, err, "failed to find register", slog.String("register_id", registerID))
		return nil, err
	}
	return register, nil
}

func (s *caisseService) ListRegisters(ctx context.Context) ([]domain.CashRegister, error) {
	registers, err := s.registerRepo.ListRegisters(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to list registers")
		return nil, err
	}
	return registers, nil
}

// GetBalance derives the register balance from its full movement log.
func (s *caisseService) GetBalance(ctx context.Context, registerID string) (decimal.Decimal, error) {
	balance, err := s.registerRepo.GetRegisterBalance(ctx, registerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, ErrCaisseIntrouvable
		}
		s.LogError(ctx, err, "failed to compute register balance", slog.String("register_id", registerID))
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *caisseService) ListMovements(ctx context.Context, registerID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	if _, err := s.GetRegister(ctx, registerID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	movements, nextToken, err := s.registerRepo.ListMovementsByRegisterID(ctx, registerID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list movements", slog.String("register_id", registerID))
		return nil, err
	}

	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(movements),
		NextToken: nextToken,
	}, nil
}

func (s *caisseService) SetRegisterActive(ctx context.Context, registerID string, active bool, userID string) error {
	if err := s.registerRepo.SetRegisterActive(ctx, registerID, active, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrCaisseIntrouvable
		}
		s.LogError(ctx, err, "failed to toggle register", slog.String("register_id", registerID))
		return err
	}
	s.LogInfo(ctx, "register active flag updated",
		slog.String("register_id", registerID),
		slog.Bool("active", active),
		slog.String("updated_by", userID))
	return nil
}

// RecordMovement validates and appends a movement to a register's log.
// The movement kind decides the ledger direction; amounts are always positive.
func (s *caisseService) RecordMovement(ctx context.Context, req dto.CreateMovementRequest, userID string) (*domain.CashMovement, error) {
	if !req.Kind.IsValid() {
		return nil, ErrTypeMouvement
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrMontantInvalide
	}

	register, err := s.resolveRegister(ctx, req.RegisterID, req.AgencyID)
	if err != nil {
		return nil, err
	}
	if !register.IsActive {
		return nil, ErrCaisseDesactivee
	}

	now := time.Now()
	movementDate := truncateToDay(now)
	if req.MovementDate != nil {
		movementDate = truncateToDay(*req.MovementDate)
	}

	movement := domain.CashMovement{
		MovementID:   uuid.NewString(),
		RegisterID:   register.RegisterID,
		Kind:         req.Kind,
		Label:        req.Label,
		Amount:       req.Amount,
		MovementDate: movementDate,
		Detail:       req.Detail,
		CreatedAt:    now,
		CreatedBy:    userID,
	}

	if err := s.registerRepo.SaveMovement(ctx, movement); err != nil {
		s.LogError(ctx, err, "failed to save movement",
			slog.String("register_id", register.RegisterID),
			slog.String("kind", string(movement.Kind)))
		return nil, fmt.Errorf("failed to save movement: %w", err)
	}

	s.LogInfo(ctx, "movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("register_id", register.RegisterID),
		slog.String("kind", string(movement.Kind)),
		slog.String("amount", movement.Amount.String()))

	s.warnIfBelowThreshold(ctx, register)

	return &movement, nil
}

// resolveRegister maps the request's register hint to a register record.
// Exactly one of registerID or agencyID must be provided; there is no
// default register.
func (s *caisseService) resolveRegister(ctx context.Context, registerID, agencyID *string) (*domain.CashRegister, error) {
	var (
		register *domain.CashRegister
		err      error
	)
	switch {
	case registerID != nil && agencyID == nil:
		register, err = s.registerRepo.FindRegisterByID(ctx, *registerID)
	case agencyID != nil && registerID == nil:
		register, err = s.registerRepo.FindRegisterByAgencyID(ctx, *agencyID)
	default:
		return nil, ErrCaisseNonPrecisee
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrCaisseIntrouvable
		}
		s.LogError(ctx, err, "failed to resolve register")
		return nil, err
	}
	return register, nil
}

// warnIfBelowThreshold emits a low-balance warning after outflows.
// Best-effort: a failed balance read is logged, never propagated.
func (s *caisseService) warnIfBelowThreshold(ctx context.Context, register *domain.CashRegister) {
	balance, err := s.registerRepo.GetRegisterBalance(ctx, register.RegisterID)
	if err != nil {
		s.LogError(ctx, err, "failed to check balance for low-balance alert",
			slog.String("register_id", register.RegisterID))
		return
	}
	if balance.LessThan(register.AlertThreshold) {
		s.LogWarn(ctx, "register balance below alert threshold",
			slog.String("register_id", register.RegisterID),
			slog.String("balance", balance.String()),
			slog.String("threshold", register.AlertThreshold.String()))
	}
}
