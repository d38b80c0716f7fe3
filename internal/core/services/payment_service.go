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
	ErrPaiementIntrouvable = apperrors.NewAppError(404, "paiement introuvable", apperrors.ErrNotFound)
	ErrPaiementDejaAnnule  = apperrors.NewAppError(409, "paiement déjà annulé", apperrors.ErrConflict)
	ErrModePaiement        = apperrors.NewAppError(400, "mode de paiement invalide", apperrors.ErrValidation)
	ErrFactureSoldee       = apperrors.NewAppError(400, "facture déjà soldée", apperrors.ErrValidation)
	ErrMontantDepasseSolde = apperrors.NewAppError(400, "le montant dépasse le solde restant", apperrors.ErrValidation)
	ErrFactureAnnulee      = apperrors.NewAppError(409, "facture annulée", apperrors.ErrConflict)
)

// paymentService implements the payment recorder. Payment, invoice
// settlement and cash movement commit or roll back as one transaction;
// the repository re-verifies the remaining balance under a row lock, so
// two concurrent payments can never together exceed the invoice total.
type paymentService struct {
	BaseService
	paymentRepo  portsrepo.PaymentRepositoryFacade
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	registerRepo portsrepo.RegisterRepositoryFacade
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, invoiceRepo portsrepo.InvoiceRepositoryFacade, registerRepo portsrepo.RegisterRepositoryFacade) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo:  paymentRepo,
		invoiceRepo:  invoiceRepo,
		registerRepo: registerRepo,
	}
}

// Ensure paymentService implements the portssvc.PaymentSvcFacade interface
var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// RecordPayment validates and records a payment against an invoice.
func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, *domain.Invoice, error) {
	return s.recordPayment(ctx, req, userID, nil)
}

// RecordLinkPayment records the payment carried by a pending link. The
// link's PENDING->PAID flip joins the payment transaction; a link already
// claimed by a concurrent settlement rolls the payment back.
func (s *paymentService) RecordLinkPayment(ctx context.Context, link *domain.PaymentLink, providerRef *string, metadata map[string]any) (*domain.Payment, *domain.Invoice, error) {
	req := dto.RecordPaymentRequest{
		InvoiceID:         link.InvoiceID,
		Amount:            link.Amount,
		Mode:              domain.ModeVirement,
		ExternalReference: providerRef,
	}
	claim := &portsrepo.LinkClaim{
		LinkID:   link.LinkID,
		Metadata: metadata,
	}
	return s.recordPayment(ctx, req, systemUserID, claim)
}

func (s *paymentService) recordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string, claim *portsrepo.LinkClaim) (*domain.Payment, *domain.Invoice, error) {
	if !req.Mode.IsValid() {
		return nil, nil, ErrModePaiement
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, ErrMontantInvalide
	}
	changeGiven := decimal.Zero
	if req.ChangeGiven != nil {
		if req.ChangeGiven.IsNegative() {
			return nil, nil, ErrMontantInvalide
		}
		changeGiven = *req.ChangeGiven
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, req.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrFactureIntrouvable
		}
		s.LogError(ctx, err, "failed to load invoice for payment", slog.String("invoice_id", req.InvoiceID))
		return nil, nil, err
	}

	// Fast-fail checks; the repository repeats them under FOR UPDATE.
	if invoice.Status == domain.StatusCancelled {
		return nil, nil, ErrFactureAnnulee
	}
	remaining := invoice.Remaining()
	if remaining.LessThanOrEqual(decimal.Zero) {
		return nil, nil, ErrFactureSoldee
	}
	if req.Amount.GreaterThan(remaining) {
		return nil, nil, ErrMontantDepasseSolde
	}

	parcel, register, err := s.resolveInvoiceRegister(ctx, invoice)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	paymentDate := truncateToDay(now)
	if req.PaymentDate != nil {
		paymentDate = truncateToDay(*req.PaymentDate)
	}

	payment := domain.Payment{
		PaymentID:         uuid.NewString(),
		InvoiceID:         invoice.InvoiceID,
		Amount:            req.Amount,
		ChangeGiven:       changeGiven,
		Mode:              req.Mode,
		ExternalReference: req.ExternalReference,
		PaymentDate:       paymentDate,
		Status:            domain.PaymentValidated,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	movement := domain.CashMovement{
		MovementID:   uuid.NewString(),
		RegisterID:   register.RegisterID,
		Kind:         req.Mode.MovementKind(),
		Label:        fmt.Sprintf("Règlement facture %s (colis %s)", invoice.Reference, parcel.Reference),
		Amount:       req.Amount,
		MovementDate: paymentDate,
		Detail: map[string]any{
			"payment_id": payment.PaymentID,
			"invoice_id": invoice.InvoiceID,
		},
		CreatedAt: now,
		CreatedBy: userID,
	}

	settled, err := s.paymentRepo.SavePaymentAndSettle(ctx, payment, movement, claim)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, nil, ErrFactureIntrouvable
		case errors.Is(err, apperrors.ErrConflict):
			return nil, nil, ErrFactureAnnulee
		case errors.Is(err, apperrors.ErrValidation):
			// A concurrent payment shrank the remaining balance between
			// the fast check and the locked re-check.
			return nil, nil, ErrMontantDepasseSolde
		case claim != nil && errors.Is(err, apperrors.ErrDuplicate):
			// A concurrent callback settled the link first.
			return nil, nil, ErrLienNonEnAttente
		}
		s.LogError(ctx, err, "failed to record payment", slog.String("invoice_id", invoice.InvoiceID))
		return nil, nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.LogInfo(ctx, "payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("mode", string(payment.Mode)),
		slog.String("amount", payment.Amount.String()),
		slog.Bool("settled", settled.IsSettled()))

	return &payment, settled, nil
}

// CancelPayment cancels a validated payment: the payment is marked
// cancelled, the invoice's paid amount shrinks back, an auto-triggered
// definitive transition is reverted when payments no longer cover the
// total, and an offsetting outflow is appended to the same register.
func (s *paymentService) CancelPayment(ctx context.Context, paymentID string, userID string) (*domain.Invoice, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrPaiementIntrouvable
		}
		s.LogError(ctx, err, "failed to load payment", slog.String("payment_id", paymentID))
		return nil, err
	}
	if payment.Status == domain.PaymentCancelled {
		return nil, ErrPaiementDejaAnnule
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, payment.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrFactureIntrouvable
		}
		s.LogError(ctx, err, "failed to load invoice for cancellation", slog.String("invoice_id", payment.InvoiceID))
		return nil, err
	}

	_, register, err := s.resolveInvoiceRegister(ctx, invoice)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reversal := domain.CashMovement{
		MovementID:   uuid.NewString(),
		RegisterID:   register.RegisterID,
		Kind:         domain.KindDecaissement,
		Label:        fmt.Sprintf("Annulation règlement facture %s", invoice.Reference),
		Amount:       payment.Amount,
		MovementDate: truncateToDay(now),
		Detail: map[string]any{
			"payment_id": payment.PaymentID,
			"invoice_id": invoice.InvoiceID,
		},
		CreatedAt: now,
		CreatedBy: userID,
	}

	reverted, err := s.paymentRepo.CancelPaymentAndReverse(ctx, paymentID, reversal, userID, now)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, ErrPaiementIntrouvable
		case errors.Is(err, apperrors.ErrConflict):
			return nil, ErrPaiementDejaAnnule
		}
		s.LogError(ctx, err, "failed to cancel payment", slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to cancel payment: %w", err)
	}

	s.LogInfo(ctx, "payment cancelled",
		slog.String("payment_id", paymentID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("amount", payment.Amount.String()),
		slog.String("invoice_status", reverted.Status.String()))

	return reverted, nil
}

func (s *paymentService) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrFactureIntrouvable
		}
		return nil, err
	}

	payments, err := s.paymentRepo.ListPaymentsByInvoiceID(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "failed to list payments", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return payments, nil
}

// resolveInvoiceRegister walks invoice -> parcel -> agency -> register.
// Every payment movement lands on the register of the agency that owns
// the invoiced parcel; there is no default register.
func (s *paymentService) resolveInvoiceRegister(ctx context.Context, invoice *domain.Invoice) (*domain.Parcel, *domain.CashRegister, error) {
	parcel, err := s.invoiceRepo.FindParcelByID(ctx, invoice.ParcelID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrColisIntrouvable
		}
		s.LogError(ctx, err, "failed to load parcel for invoice", slog.String("parcel_id", invoice.ParcelID))
		return nil, nil, err
	}

	register, err := s.registerRepo.FindRegisterByAgencyID(ctx, parcel.AgencyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrCaisseIntrouvable
		}
		s.LogError(ctx, err, "failed to resolve agency register", slog.String("agency_id", parcel.AgencyID))
		return nil, nil, err
	}
	return parcel, register, nil
}
