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
	ErrFactureIntrouvable = apperrors.NewAppError(404, "facture introuvable", apperrors.ErrNotFound)
	ErrColisIntrouvable   = apperrors.NewAppError(404, "colis introuvable", apperrors.ErrNotFound)
	ErrFactureExistante   = apperrors.NewAppError(409, "une facture existe déjà pour ce colis", apperrors.ErrDuplicate)
	ErrTransitionInvalide = apperrors.NewAppError(409, "transition de statut de facture invalide", apperrors.ErrConflict)
	ErrReferenceConflit   = apperrors.NewAppError(409, "référence de facture en conflit, veuillez réessayer", apperrors.ErrConflict)
)

// defaultCurrencyCode applies when the owning agency carries no currency.
const defaultCurrencyCode = "XOF"

// invoiceService implements the invoice ledger: proforma creation from a
// parcel's billable lines and the explicit lifecycle transitions.
type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	agencyReader portsrepo.AgencyReader
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, agencyReader portsrepo.AgencyReader) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		agencyReader: agencyReader,
	}
}

// Ensure invoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateProforma invoices a parcel. The total is the sum of the parcel's
// line totals (unit price x quantity plus per-line fees), the currency is
// the owning agency's, and the reference is the next slot of the per-month
// FCO counter. A parcel can only be invoiced once.
func (s *invoiceService) CreateProforma(ctx context.Context, parcelID string, userID string) (*domain.Invoice, error) {
	existing, err := s.invoiceRepo.FindInvoiceByParcelID(ctx, parcelID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "failed to check for existing invoice", slog.String("parcel_id", parcelID))
		return nil, fmt.Errorf("failed to check for existing invoice: %w", err)
	}
	if existing != nil {
		return nil, ErrFactureExistante
	}

	parcel, err := s.invoiceRepo.FindParcelByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrColisIntrouvable
		}
		s.LogError(ctx, err, "failed to load parcel", slog.String("parcel_id", parcelID))
		return nil, err
	}

	total := parcel.BillableTotal()
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, ErrMontantInvalide
	}

	currency := defaultCurrencyCode
	agency, err := s.agencyReader.FindAgencyByID(ctx, parcel.AgencyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to load agency", slog.String("agency_id", parcel.AgencyID))
			return nil, err
		}
	} else if agency.CurrencyCode != "" {
		currency = agency.CurrencyCode
	}

	now := time.Now()
	reference, err := s.nextReference(ctx, now)
	if err != nil {
		return nil, err
	}

	invoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		Reference:     reference,
		ParcelID:      parcel.ParcelID,
		AmountHT:      total,
		AmountTTC:     total, // no tax applies
		PaidAmount:    decimal.Zero,
		Status:        domain.StatusProforma,
		AutoValidated: false,
		CurrencyCode:  currency,
		ExchangeRate:  decimal.NewFromInt(1),
		InvoiceDate:   truncateToDay(now),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		// The unique constraints backstop concurrent creations: a parcel
		// duplicate or a reference collision surfaces here, not as corruption.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrFactureExistante
		}
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrReferenceConflit
		}
		s.LogError(ctx, err, "failed to save invoice", slog.String("parcel_id", parcelID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.LogInfo(ctx, "proforma invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("reference", invoice.Reference),
		slog.String("parcel_id", parcel.ParcelID),
		slog.String("amount", total.String()))

	return &invoice, nil
}

// nextReference allocates the next slot of the per-month invoice counter.
// The counter resets each calendar month through the reference prefix.
func (s *invoiceService) nextReference(ctx context.Context, t time.Time) (string, error) {
	prefix := domain.ReferencePrefix(t)
	maxSuffix, err := s.invoiceRepo.MaxReferenceSuffix(ctx, prefix)
	if err != nil {
		s.LogError(ctx, err, "failed to read invoice reference counter", slog.String("prefix", prefix))
		return "", fmt.Errorf("failed to read invoice reference counter: %w", err)
	}
	return domain.FormatReference(t, maxSuffix+1), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrFactureIntrouvable
		}
		s.LogError(ctx, err, "failed to find invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list invoices")
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Invoices:  dto.ToInvoiceResponses(invoices),
		NextToken: nextToken,
	}, nil
}

// ValidateInvoice explicitly transitions a proforma to definitive.
func (s *invoiceService) ValidateInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return s.transition(ctx, invoiceID, domain.StatusDefinitive, userID)
}

// CancelInvoice transitions an invoice to cancelled. Terminal.
func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return s.transition(ctx, invoiceID, domain.StatusCancelled, userID)
}

func (s *invoiceService) transition(ctx context.Context, invoiceID string, target domain.InvoiceStatus, userID string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.Status.CanTransitionTo(target) {
		return nil, ErrTransitionInvalide
	}

	now := time.Now()
	// Explicit transitions always clear the auto flag: a user decision
	// replaces whatever the settlement path decided.
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, target, false, userID, now); err != nil {
		s.LogError(ctx, err, "failed to update invoice status",
			slog.String("invoice_id", invoiceID),
			slog.String("target", target.String()))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.LogInfo(ctx, "invoice status updated",
		slog.String("invoice_id", invoiceID),
		slog.String("from", invoice.Status.String()),
		slog.String("to", target.String()))

	invoice.Status = target
	invoice.AutoValidated = false
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID
	return invoice, nil
}
