package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
)

var ErrPeriodeInvalide = apperrors.NewAppError(400, "période invalide", apperrors.ErrValidation)

// reportingService implements the read-only reconciliation queries.
// All aggregation happens in SQL; this layer normalizes date ranges and
// assembles the summary structures.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	registerRepo  portsrepo.RegisterRepositoryFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, registerRepo portsrepo.RegisterRepositoryFacade) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		registerRepo:  registerRepo,
	}
}

// Ensure reportingService implements the portssvc.ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// endOfDay pushes t to the last instant of its calendar day, making
// range upper bounds inclusive.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// PointDeCaisse produces the daily close of a register: the day's inflows
// and outflows next to the register's current running balance.
func (s *reportingService) PointDeCaisse(ctx context.Context, registerID string, day time.Time) (*domain.PointDeCaisse, error) {
	if err := s.checkRegister(ctx, registerID); err != nil {
		return nil, err
	}

	from := truncateToDay(day)
	to := endOfDay(day)

	data, err := s.reportingRepo.GetDailyCloseData(ctx, registerID, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to compute daily close", slog.String("register_id", registerID))
		return nil, fmt.Errorf("failed to compute daily close: %w", err)
	}

	solde, err := s.registerRepo.GetRegisterBalance(ctx, registerID)
	if err != nil {
		s.LogError(ctx, err, "failed to compute register balance", slog.String("register_id", registerID))
		return nil, err
	}

	return &domain.PointDeCaisse{
		RegisterID:    registerID,
		Day:           from,
		Entrees:       data.Entrees,
		Sorties:       data.Sorties,
		MovementCount: data.MovementCount,
		Solde:         solde,
	}, nil
}

// GrandesLignes summarizes a register over a date range: per-kind totals,
// the balance folded strictly before the range, and the closing balance
// recomputed from the identity opening + appro - decaissement + entrees.
func (s *reportingService) GrandesLignes(ctx context.Context, registerID string, from, to time.Time) (*domain.GrandesLignes, error) {
	if err := s.checkRegister(ctx, registerID); err != nil {
		return nil, err
	}

	from = truncateToDay(from)
	to = endOfDay(to)
	if from.After(to) {
		return nil, ErrPeriodeInvalide
	}

	totals, err := s.reportingRepo.GetKindTotals(ctx, registerID, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to compute kind totals", slog.String("register_id", registerID))
		return nil, fmt.Errorf("failed to compute kind totals: %w", err)
	}

	soldeInitial, err := s.reportingRepo.GetBalanceBefore(ctx, registerID, from)
	if err != nil {
		s.LogError(ctx, err, "failed to compute opening balance", slog.String("register_id", registerID))
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}

	result := &domain.GrandesLignes{
		RegisterID:           registerID,
		From:                 from,
		To:                   to,
		TotalAppro:           totals[domain.KindAppro],
		TotalDecaissement:    totals[domain.KindDecaissement],
		TotalEntreesCheque:   totals[domain.KindEntreeCheque],
		TotalEntreesEspece:   totals[domain.KindEntreeEspece],
		TotalEntreesVirement: totals[domain.KindEntreeVirement],
		SoldeInitial:         soldeInitial,
	}
	result.SoldeFinal = result.ClosingBalance()
	return result, nil
}

// AgencyReconciliation groups validated payments by agency over a range.
func (s *reportingService) AgencyReconciliation(ctx context.Context, from, to time.Time) (*domain.AgencyReconciliation, error) {
	from = truncateToDay(from)
	to = endOfDay(to)
	if from.After(to) {
		return nil, ErrPeriodeInvalide
	}

	rows, err := s.reportingRepo.GetAgencyReconciliationData(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to compute agency reconciliation")
		return nil, fmt.Errorf("failed to compute agency reconciliation: %w", err)
	}

	totalCount := 0
	totalAmount := decimal.Zero
	for _, row := range rows {
		totalCount += row.PaymentCount
		totalAmount = totalAmount.Add(row.TotalAmount)
	}

	return &domain.AgencyReconciliation{
		From:        from,
		To:          to,
		Rows:        rows,
		TotalCount:  totalCount,
		TotalAmount: totalAmount,
	}, nil
}

func (s *reportingService) checkRegister(ctx context.Context, registerID string) error {
	if _, err := s.registerRepo.FindRegisterByID(ctx, registerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrCaisseIntrouvable
		}
		s.LogError(ctx, err, "failed to find register", slog.String("register_id", registerID))
		return err
	}
	return nil
}
